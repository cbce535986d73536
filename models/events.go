package models

// Wire payloads for the socket protocol. Every frame in either direction is
// an Envelope-shaped object {"event": ..., "data": ...}; the structs below
// are the closed set of data variants.

// --- inbound requests ---

type SetUsernameRequest struct {
	Username string `json:"username"`
}

type ChatHistoryRequest struct {
	ChatID string `json:"chat_id"`
}

type SendMessageRequest struct {
	Text      string `json:"text"`
	ChatID    string `json:"chat_id"`
	Recipient string `json:"recipient,omitempty"`
}

// ContactRequest is shared by add_contact, remove_contact and
// join_private_chat.
type ContactRequest struct {
	ContactUsername string `json:"contact_username"`
}

type UserStatusRequest struct {
	Username string `json:"username"`
}

// --- outbound events ---

type LoginSuccess struct {
	Username       string    `json:"username"`
	UserID         string    `json:"user_id"`
	OnlineCount    int       `json:"online_count"`
	RecentMessages []Message `json:"recent_messages"`
}

type LoginFailed struct {
	Reason string `json:"reason"`
}

// PresenceEvent announces user_joined / user_left to the general chat.
type PresenceEvent struct {
	Username  string `json:"username"`
	Timestamp string `json:"timestamp"`
}

type ChatHistory struct {
	ChatID   string    `json:"chat_id"`
	Messages []Message `json:"messages"`
}

// NewMessageEvent carries one freshly routed message ("new_message").
type NewMessageEvent struct {
	ChatID  string  `json:"chat_id"`
	Message Message `json:"message"`
}

type ContactAdded struct {
	ContactUsername string `json:"contact_username"`
	ChatID          string `json:"chat_id"`
}

type ContactRemoved struct {
	ContactUsername string `json:"contact_username"`
}

type ContactError struct {
	Reason string `json:"reason"`
}

type OnlineUsers struct {
	Users []string `json:"users"`
	Count int      `json:"count"`
}

type UserContacts struct {
	Contacts []string `json:"contacts"`
}

type UserStatus struct {
	Username string `json:"username"`
	Online   bool   `json:"online"`
}
