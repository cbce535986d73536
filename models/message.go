package models

import (
	"time"

	"github.com/google/uuid"
)

// Message is a single chat message as it travels over the wire. Messages
// are immutable once created.
type Message struct {
	ID        string `json:"id"`
	Sender    string `json:"sender"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
	// Time is the short display form (HH:MM) of Timestamp.
	Time   string `json:"time"`
	ChatID string `json:"chat_id"`
}

// NewMessage stamps a message with a fresh id and the current time.
func NewMessage(sender, text, chatID string) Message {
	now := time.Now()
	return Message{
		ID:        uuid.NewString(),
		Sender:    sender,
		Text:      text,
		Timestamp: now.Format(time.RFC3339),
		Time:      now.Format("15:04"),
		ChatID:    chatID,
	}
}
