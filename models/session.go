package models

import "time"

// Session binds a display name to one live connection. It exists from a
// successful name claim until disconnect.
type Session struct {
	ID       string    `json:"id"`
	Username string    `json:"username"`
	JoinedAt time.Time `json:"joined_at"`
}
