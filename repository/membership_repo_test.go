package repository_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"navychat/repository"
)

func TestRecordJoin_Idempotent(t *testing.T) {
	repo := repository.NewInMemoryMembershipRepo()

	repo.RecordJoin("s1", "general")
	repo.RecordJoin("s1", "general")
	repo.RecordJoin("s1", "private_ann_bob")

	assert.True(t, repo.HasJoined("s1", "general"))
	assert.Equal(t, []string{"general", "private_ann_bob"}, repo.RoomsOf("s1"))
}

func TestRecordLeave(t *testing.T) {
	repo := repository.NewInMemoryMembershipRepo()

	// Leaving a room never joined is a no-op.
	repo.RecordLeave("s1", "general")
	assert.Empty(t, repo.RoomsOf("s1"))

	repo.RecordJoin("s1", "general")
	repo.RecordJoin("s1", "private_ann_bob")
	repo.RecordLeave("s1", "general")

	assert.False(t, repo.HasJoined("s1", "general"))
	assert.Equal(t, []string{"private_ann_bob"}, repo.RoomsOf("s1"))
}

func TestMembership_PerSession(t *testing.T) {
	repo := repository.NewInMemoryMembershipRepo()

	repo.RecordJoin("s1", "general")
	assert.False(t, repo.HasJoined("s2", "general"))
	assert.Empty(t, repo.RoomsOf("s2"))
}
