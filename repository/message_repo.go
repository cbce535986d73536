package repository

import (
	"sync"

	"navychat/models"
)

// MaxMessagesPerChat caps each chat's history buffer; the oldest entries are
// evicted first.
const MaxMessagesPerChat = 500

type MessageRepository interface {
	Append(chatID string, msg models.Message)
	Tail(chatID string, n int) []models.Message
}

// InMemoryMessageRepo is an append-only, size-bounded history buffer per
// chat. Append-and-trim happens under one lock so concurrent appends to the
// same chat can neither lose nor duplicate an entry.
type InMemoryMessageRepo struct {
	mu   sync.RWMutex
	data map[string][]models.Message
}

func NewInMemoryMessageRepo() *InMemoryMessageRepo {
	return &InMemoryMessageRepo{data: make(map[string][]models.Message)}
}

func (r *InMemoryMessageRepo) Append(chatID string, msg models.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()

	buf := append(r.data[chatID], msg)
	if len(buf) > MaxMessagesPerChat {
		// Copy so the evicted prefix can actually be collected.
		trimmed := make([]models.Message, MaxMessagesPerChat)
		copy(trimmed, buf[len(buf)-MaxMessagesPerChat:])
		buf = trimmed
	}
	r.data[chatID] = buf
}

// Tail returns up to the n most recent messages of the chat, oldest first.
// A chat with no history yields an empty, non-nil slice so it encodes as []
// on the wire.
func (r *InMemoryMessageRepo) Tail(chatID string, n int) []models.Message {
	r.mu.RLock()
	defer r.mu.RUnlock()

	buf := r.data[chatID]
	if n > 0 && len(buf) > n {
		buf = buf[len(buf)-n:]
	}
	out := make([]models.Message, len(buf))
	copy(out, buf)
	return out
}
