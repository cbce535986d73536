package repository

import (
	"sync"

	"github.com/samber/lo"

	"navychat/models"
)

type ContactRepository interface {
	Add(sessionID, contactName string, sessions SessionRepository) (string, error)
	Remove(sessionID, contactName string) error
	ListOf(sessionID string) []string
	ClearOwner(sessionID string)
}

// InMemoryContactRepo keeps each session's contact list in insertion order.
// Contacts are one-directional: A listing B says nothing about B.
type InMemoryContactRepo struct {
	mu   sync.RWMutex
	data map[string][]string
}

func NewInMemoryContactRepo() *InMemoryContactRepo {
	return &InMemoryContactRepo{data: make(map[string][]string)}
}

// Add appends contactName to the owner's list and returns the derived
// private chat id. The session repository is consulted for the owner's own
// name and for whether the contact is currently online; joining the chat is
// the caller's job.
func (r *InMemoryContactRepo) Add(sessionID, contactName string, sessions SessionRepository) (string, error) {
	owner, ok := sessions.NameOf(sessionID)
	if !ok {
		return "", ErrUnknownContact
	}
	if contactName == "" || contactName == owner {
		return "", ErrSelfContact
	}
	if _, online := sessions.SessionOf(contactName); !online {
		return "", ErrUnknownContact
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if lo.Contains(r.data[sessionID], contactName) {
		return "", ErrAlreadyContact
	}
	r.data[sessionID] = append(r.data[sessionID], contactName)
	return models.PrivateChatID(owner, contactName), nil
}

func (r *InMemoryContactRepo) Remove(sessionID, contactName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := lo.IndexOf(r.data[sessionID], contactName)
	if i < 0 {
		return ErrContactNotFound
	}
	list := r.data[sessionID]
	r.data[sessionID] = append(list[:i], list[i+1:]...)
	return nil
}

// ListOf returns the owner's contacts in the order they were added.
func (r *InMemoryContactRepo) ListOf(sessionID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	contacts := make([]string, len(r.data[sessionID]))
	copy(contacts, r.data[sessionID])
	return contacts
}

// ClearOwner drops the owner's whole list. Session ids are never reused, so
// this only reclaims memory on disconnect.
func (r *InMemoryContactRepo) ClearOwner(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, sessionID)
}
