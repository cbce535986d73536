package repository

import "sync"

type MembershipRepository interface {
	RecordJoin(sessionID, chatID string)
	RecordLeave(sessionID, chatID string)
	HasJoined(sessionID, chatID string) bool
	RoomsOf(sessionID string) []string
}

// InMemoryMembershipRepo tracks which chats each session has joined. Both
// join and leave are idempotent.
type InMemoryMembershipRepo struct {
	mu    sync.RWMutex
	rooms map[string][]string            // session id -> chat ids, join order
	index map[string]map[string]struct{} // session id -> joined set
}

func NewInMemoryMembershipRepo() *InMemoryMembershipRepo {
	return &InMemoryMembershipRepo{
		rooms: make(map[string][]string),
		index: make(map[string]map[string]struct{}),
	}
}

func (r *InMemoryMembershipRepo) RecordJoin(sessionID, chatID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.index[sessionID][chatID]; ok {
		return
	}
	if r.index[sessionID] == nil {
		r.index[sessionID] = make(map[string]struct{})
	}
	r.index[sessionID][chatID] = struct{}{}
	r.rooms[sessionID] = append(r.rooms[sessionID], chatID)
}

func (r *InMemoryMembershipRepo) RecordLeave(sessionID, chatID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.index[sessionID][chatID]; !ok {
		return
	}
	delete(r.index[sessionID], chatID)
	joined := r.rooms[sessionID]
	for i, id := range joined {
		if id == chatID {
			r.rooms[sessionID] = append(joined[:i], joined[i+1:]...)
			break
		}
	}

	// Drop empty entries so dead sessions leave nothing behind.
	if len(r.index[sessionID]) == 0 {
		delete(r.index, sessionID)
		delete(r.rooms, sessionID)
	}
}

func (r *InMemoryMembershipRepo) HasJoined(sessionID, chatID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.index[sessionID][chatID]
	return ok
}

// RoomsOf returns the chats the session has joined, in join order.
func (r *InMemoryMembershipRepo) RoomsOf(sessionID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	joined := make([]string, len(r.rooms[sessionID]))
	copy(joined, r.rooms[sessionID])
	return joined
}
