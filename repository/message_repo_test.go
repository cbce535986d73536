package repository_test

import (
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"navychat/models"
	"navychat/repository"
)

func fill(repo repository.MessageRepository, chatID string, n int) {
	for i := 0; i < n; i++ {
		repo.Append(chatID, models.Message{ID: strconv.Itoa(i), Sender: "ann", Text: "m" + strconv.Itoa(i), ChatID: chatID})
	}
}

func TestTail_EmptyChatIsNonNil(t *testing.T) {
	repo := repository.NewInMemoryMessageRepo()

	got := repo.Tail("general", 20)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestTail_ReturnsMostRecentOldestFirst(t *testing.T) {
	repo := repository.NewInMemoryMessageRepo()
	fill(repo, "general", 30)

	got := repo.Tail("general", 20)
	require.Len(t, got, 20)
	assert.Equal(t, "m10", got[0].Text)
	assert.Equal(t, "m29", got[19].Text)

	all := repo.Tail("general", 0)
	assert.Len(t, all, 30)
}

func TestAppend_EvictsOldestPastCap(t *testing.T) {
	repo := repository.NewInMemoryMessageRepo()
	fill(repo, "general", repository.MaxMessagesPerChat+1)

	got := repo.Tail("general", 0)
	require.Len(t, got, repository.MaxMessagesPerChat)
	assert.Equal(t, "m1", got[0].Text)
	assert.Equal(t, "m500", got[len(got)-1].Text)
}

func TestAppend_ChatsAreIndependent(t *testing.T) {
	repo := repository.NewInMemoryMessageRepo()
	fill(repo, "general", 3)
	fill(repo, "private_ann_bob", 1)

	assert.Len(t, repo.Tail("general", 0), 3)
	assert.Len(t, repo.Tail("private_ann_bob", 0), 1)
}

func TestAppend_ConcurrentWritersStayBounded(t *testing.T) {
	repo := repository.NewInMemoryMessageRepo()

	const writers, each = 4, 200
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fill(repo, "general", each)
		}()
	}
	wg.Wait()

	// 800 appends against a 500 cap: exactly the cap survives.
	assert.Len(t, repo.Tail("general", 0), repository.MaxMessagesPerChat)
}

func TestTail_CopiesOutOfTheBuffer(t *testing.T) {
	repo := repository.NewInMemoryMessageRepo()
	fill(repo, "general", 2)

	got := repo.Tail("general", 0)
	got[0].Text = "mutated"

	assert.Equal(t, "m0", repo.Tail("general", 0)[0].Text)
}
