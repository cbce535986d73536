package repository_test

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"navychat/repository"
)

func TestClaim_TrimsAndTruncates(t *testing.T) {
	repo := repository.NewInMemorySessionRepo()

	s, err := repo.Claim("   Ann   ")
	require.NoError(t, err)
	assert.Equal(t, "Ann", s.Username)
	assert.NotEmpty(t, s.ID)

	long, err := repo.Claim(strings.Repeat("x", 30))
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("x", repository.MaxUsernameLength), long.Username)
}

func TestClaim_RejectsEmpty(t *testing.T) {
	repo := repository.NewInMemorySessionRepo()

	_, err := repo.Claim("")
	assert.ErrorIs(t, err, repository.ErrInvalidName)

	_, err = repo.Claim("   \t  ")
	assert.ErrorIs(t, err, repository.ErrInvalidName)

	assert.Zero(t, repo.Count())
}

func TestClaim_RejectsTakenName(t *testing.T) {
	repo := repository.NewInMemorySessionRepo()

	_, err := repo.Claim("Ann")
	require.NoError(t, err)

	_, err = repo.Claim("Ann")
	assert.ErrorIs(t, err, repository.ErrNameTaken)

	// A name that truncates onto a taken one collides too.
	_, err = repo.Claim("Ann   ")
	assert.ErrorIs(t, err, repository.ErrNameTaken)
}

// Uniqueness is exact-match while chat id derivation folds case, so "Ann"
// and "ann" can both be online at once. This pins the asymmetry down.
func TestClaim_CaseSensitiveUniqueness(t *testing.T) {
	repo := repository.NewInMemorySessionRepo()

	_, err := repo.Claim("Ann")
	require.NoError(t, err)

	lower, err := repo.Claim("ann")
	require.NoError(t, err)
	assert.Equal(t, "ann", lower.Username)
	assert.Equal(t, 2, repo.Count())
}

func TestRelease(t *testing.T) {
	repo := repository.NewInMemorySessionRepo()

	s, err := repo.Claim("Ann")
	require.NoError(t, err)

	repo.Release(s.ID)
	assert.Zero(t, repo.Count())
	_, ok := repo.NameOf(s.ID)
	assert.False(t, ok)

	// Name is claimable again, and releasing twice is harmless.
	repo.Release(s.ID)
	_, err = repo.Claim("Ann")
	assert.NoError(t, err)
}

func TestLookups(t *testing.T) {
	repo := repository.NewInMemorySessionRepo()

	s, err := repo.Claim("Ann")
	require.NoError(t, err)

	name, ok := repo.NameOf(s.ID)
	require.True(t, ok)
	assert.Equal(t, "Ann", name)

	id, ok := repo.SessionOf("Ann")
	require.True(t, ok)
	assert.Equal(t, s.ID, id)

	// Exact lookup is case-sensitive, folded lookup is not.
	_, ok = repo.SessionOf("ann")
	assert.False(t, ok)

	id, ok = repo.SessionOfFold("aNN")
	require.True(t, ok)
	assert.Equal(t, s.ID, id)

	_, ok = repo.SessionOfFold("bob")
	assert.False(t, ok)
}

func TestActiveNames_ClaimOrder(t *testing.T) {
	repo := repository.NewInMemorySessionRepo()

	for _, name := range []string{"Ann", "Bob", "Cleo"} {
		_, err := repo.Claim(name)
		require.NoError(t, err)
	}
	bobID, _ := repo.SessionOf("Bob")
	repo.Release(bobID)

	assert.Equal(t, []string{"Ann", "Cleo"}, repo.ActiveNames())
}

func TestClaim_ConcurrentSameName(t *testing.T) {
	repo := repository.NewInMemorySessionRepo()

	const workers = 16
	var wg sync.WaitGroup
	wins := make(chan string, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s, err := repo.Claim("Ann"); err == nil {
				wins <- s.ID
			}
		}()
	}
	wg.Wait()
	close(wins)

	var ids []string
	for id := range wins {
		ids = append(ids, id)
	}
	require.Len(t, ids, 1)
	assert.Equal(t, 1, repo.Count())
}
