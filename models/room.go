package models

import (
	"sort"
	"strings"

	"github.com/samber/lo"
)

const (
	// GeneralChatID is the single public chat every identified user joins.
	GeneralChatID = "general"

	privateChatPrefix = "private_"
)

// PrivateChatID derives the chat id for a pair of display names. The two
// names are lower-cased and sorted before encoding, so the result is the
// same no matter which side initiates and no matter the letter case.
func PrivateChatID(a, b string) string {
	pair := lo.Map([]string{a, b}, func(name string, _ int) string {
		return strings.ToLower(name)
	})
	sort.Strings(pair)
	return privateChatPrefix + pair[0] + "_" + pair[1]
}

// IsPrivateChat reports whether chatID names a private chat.
func IsPrivateChat(chatID string) bool {
	return strings.HasPrefix(chatID, privateChatPrefix)
}

// ChatParticipants decodes the two participant names encoded in a private
// chat id. It returns nil for the general chat and for any id that does not
// encode exactly two names.
func ChatParticipants(chatID string) []string {
	if !IsPrivateChat(chatID) {
		return nil
	}
	parts := strings.Split(chatID, "_")[1:]
	if len(parts) != 2 {
		return nil
	}
	return parts
}
