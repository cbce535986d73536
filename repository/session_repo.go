package repository

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"navychat/models"
)

// MaxUsernameLength is the cap a candidate name is truncated to before any
// other validation.
const MaxUsernameLength = 20

type SessionRepository interface {
	Claim(username string) (*models.Session, error)
	Release(sessionID string)
	NameOf(sessionID string) (string, bool)
	SessionOf(username string) (string, bool)
	SessionOfFold(username string) (string, bool)
	Count() int
	ActiveNames() []string
}

// InMemorySessionRepo keeps both directions of the session<->name mapping
// under one lock so they can never diverge. Names are also kept in claim
// order for presence listings.
type InMemorySessionRepo struct {
	mu     sync.RWMutex
	byID   map[string]*models.Session
	byName map[string]*models.Session
	order  []string
}

func NewInMemorySessionRepo() *InMemorySessionRepo {
	return &InMemorySessionRepo{
		byID:   make(map[string]*models.Session),
		byName: make(map[string]*models.Session),
	}
}

// Claim trims and truncates the candidate name, then records a fresh session
// for it. Uniqueness is an exact string match: "Ann" and "ann" are distinct
// names even though they derive the same private chat ids.
func (r *InMemorySessionRepo) Claim(username string) (*models.Session, error) {
	username = strings.TrimSpace(username)
	if runes := []rune(username); len(runes) > MaxUsernameLength {
		username = string(runes[:MaxUsernameLength])
	}
	if username == "" {
		return nil, ErrInvalidName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byName[username]; taken {
		return nil, ErrNameTaken
	}

	s := &models.Session{
		ID:       uuid.NewString(),
		Username: username,
		JoinedAt: time.Now(),
	}
	r.byID[s.ID] = s
	r.byName[s.Username] = s
	r.order = append(r.order, s.Username)
	return s, nil
}

// Release removes both mapping directions. Releasing an unknown session is
// a no-op.
func (r *InMemorySessionRepo) Release(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.byID[sessionID]
	if !ok {
		return
	}
	delete(r.byID, s.ID)
	delete(r.byName, s.Username)
	for i, name := range r.order {
		if name == s.Username {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

func (r *InMemorySessionRepo) NameOf(sessionID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byID[sessionID]
	if !ok {
		return "", false
	}
	return s.Username, true
}

func (r *InMemorySessionRepo) SessionOf(username string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byName[username]
	if !ok {
		return "", false
	}
	return s.ID, true
}

// SessionOfFold looks a session up by name ignoring case. Private chat ids
// encode lower-cased names, so routing back to the live session has to fold
// case even though name uniqueness does not.
func (r *InMemorySessionRepo) SessionOfFold(username string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for name, s := range r.byName {
		if strings.EqualFold(name, username) {
			return s.ID, true
		}
	}
	return "", false
}

func (r *InMemorySessionRepo) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

// ActiveNames returns the display names of all live sessions in claim order.
func (r *InMemorySessionRepo) ActiveNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}
