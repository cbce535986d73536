package services

import (
	"strings"

	"github.com/samber/lo"

	"navychat/models"
)

// CanAccessChat reports whether the session may read or write chatID. The
// general chat is open to everyone; a private chat only to a session whose
// own name matches one of the id's decoded participants, ignoring case. Any
// other id shape is never accessible.
//
// The check is pure: it must run before every read or write on a non-public
// chat, and a failed check is answered with silence, never an error event.
func (s *ChatService) CanAccessChat(sessionID, chatID string) bool {
	if chatID == models.GeneralChatID {
		return true
	}
	if !models.IsPrivateChat(chatID) {
		return false
	}

	username, ok := s.sessions.NameOf(sessionID)
	if !ok {
		return false
	}
	return lo.ContainsBy(models.ChatParticipants(chatID), func(p string) bool {
		return strings.EqualFold(p, username)
	})
}
