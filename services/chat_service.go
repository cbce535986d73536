package services

import (
	"log"
	"strings"
	"sync"
	"time"

	"navychat/models"
	"navychat/repository"
)

// Transport is the connection collaborator the service routes through: the
// websocket hub in production, a recording fake in tests. Deliver and
// Broadcast are fire-and-forget; JoinRoom and LeaveRoom take effect before
// they return.
type Transport interface {
	Deliver(connID, event string, payload any)
	Broadcast(room, event string, payload any)
	JoinRoom(connID, room string)
	LeaveRoom(connID, room string)
}

const (
	// MaxMessageLength is the cap message text is truncated to after
	// trimming.
	MaxMessageLength = 500

	recentOnLogin      = 20
	historyPageSize    = 100
	privateJoinHistory = 50
)

// ChatService routes every inbound socket event: it decides who may see
// what, keeps the stores consistent, and issues deliveries and broadcasts
// back through the transport.
//
// Each connection moves Anonymous -> Identified -> Disconnected. Compound
// operations that touch more than one store (claim-and-join on login,
// append-and-trim on send, add-and-join on contact add) run under the
// service lock so no handler observes a half-completed transition.
type ChatService struct {
	mu          sync.RWMutex
	sessions    repository.SessionRepository
	memberships repository.MembershipRepository
	contacts    repository.ContactRepository
	messages    repository.MessageRepository
	transport   Transport
	conns       map[string]string // session id -> connection id
}

func NewChatService(
	sessions repository.SessionRepository,
	memberships repository.MembershipRepository,
	contacts repository.ContactRepository,
	messages repository.MessageRepository,
	transport Transport,
) *ChatService {
	return &ChatService{
		sessions:    sessions,
		memberships: memberships,
		contacts:    contacts,
		messages:    messages,
		transport:   transport,
		conns:       make(map[string]string),
	}
}

// SetUsername claims the name for the connection and, on success, joins it
// to the general chat and returns the new session id. On failure the
// connection stays anonymous and only receives login_failed.
func (s *ChatService) SetUsername(connID, username string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Claim(username)
	if err != nil {
		s.transport.Deliver(connID, "login_failed", models.LoginFailed{Reason: err.Error()})
		return ""
	}

	s.conns[sess.ID] = connID
	s.transport.JoinRoom(connID, models.GeneralChatID)
	s.memberships.RecordJoin(sess.ID, models.GeneralChatID)

	log.Printf("User %s joined with session %s", sess.Username, sess.ID)

	s.transport.Deliver(connID, "login_success", models.LoginSuccess{
		Username:       sess.Username,
		UserID:         sess.ID,
		OnlineCount:    s.sessions.Count(),
		RecentMessages: s.messages.Tail(models.GeneralChatID, recentOnLogin),
	})
	s.transport.Broadcast(models.GeneralChatID, "user_joined", models.PresenceEvent{
		Username:  sess.Username,
		Timestamp: time.Now().Format(time.RFC3339),
	})
	return sess.ID
}

// Disconnect releases the connection's identity and leaves every joined
// chat. A connection that never identified produces no state change and no
// broadcast; disconnecting twice is a no-op.
func (s *ChatService) Disconnect(connID, sessionID string) {
	if sessionID == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	username, ok := s.sessions.NameOf(sessionID)
	if !ok {
		return
	}
	s.sessions.Release(sessionID)
	for _, chatID := range s.memberships.RoomsOf(sessionID) {
		s.transport.LeaveRoom(connID, chatID)
		s.memberships.RecordLeave(sessionID, chatID)
	}
	s.contacts.ClearOwner(sessionID)
	delete(s.conns, sessionID)

	log.Printf("User %s disconnected", username)

	s.transport.Broadcast(models.GeneralChatID, "user_left", models.PresenceEvent{
		Username:  username,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// SendMessage validates, records and routes one message. Anything that is
// not allowed — unidentified sender, empty text, inaccessible chat, or a
// submitted private chat id that does not match the one recomputed for
// (sender, recipient) — is dropped without a reply.
func (s *ChatService) SendMessage(sessionID string, req models.SendMessageRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()

	username, ok := s.sessions.NameOf(sessionID)
	if !ok {
		return
	}

	text := strings.TrimSpace(req.Text)
	if runes := []rune(text); len(runes) > MaxMessageLength {
		text = string(runes[:MaxMessageLength])
	}
	if text == "" {
		return
	}

	chatID := req.ChatID
	if chatID == "" {
		chatID = models.GeneralChatID
	}
	if !s.CanAccessChat(sessionID, chatID) {
		return
	}
	if models.IsPrivateChat(chatID) && req.Recipient != "" {
		if chatID != models.PrivateChatID(username, req.Recipient) {
			return
		}
	}

	msg := models.NewMessage(username, text, chatID)
	s.messages.Append(chatID, msg)

	log.Printf("Message from %s in %s", username, chatID)

	payload := models.NewMessageEvent{ChatID: chatID, Message: msg}
	if chatID == models.GeneralChatID {
		s.transport.Broadcast(chatID, "new_message", payload)
		return
	}

	// Private chats deliver per participant, and only to participants who
	// actually joined the chat: listing a contact is not the same as
	// opening the conversation.
	for _, participant := range models.ChatParticipants(chatID) {
		pid, online := s.sessions.SessionOfFold(participant)
		if !online || !s.memberships.HasJoined(pid, chatID) {
			continue
		}
		if conn, ok := s.conns[pid]; ok {
			s.transport.Deliver(conn, "new_message", payload)
		}
	}
}

// AddContact appends the contact and joins both participants' connections
// to the derived private chat before acknowledging.
func (s *ChatService) AddContact(sessionID, contactName string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	username, ok := s.sessions.NameOf(sessionID)
	if !ok {
		return
	}

	contactName = strings.TrimSpace(contactName)
	chatID, err := s.contacts.Add(sessionID, contactName, s.sessions)
	if err != nil {
		s.deliverTo(sessionID, "contact_error", models.ContactError{Reason: err.Error()})
		return
	}

	for _, name := range []string{username, contactName} {
		pid, online := s.sessions.SessionOf(name)
		if !online || s.memberships.HasJoined(pid, chatID) {
			continue
		}
		if conn, ok := s.conns[pid]; ok {
			s.transport.JoinRoom(conn, chatID)
		}
		s.memberships.RecordJoin(pid, chatID)
	}

	s.deliverTo(sessionID, "contact_added", models.ContactAdded{
		ContactUsername: contactName,
		ChatID:          chatID,
	})
}

// RemoveContact removes the contact and leaves the derived chat. Only the
// requester leaves; the other party's membership is untouched.
func (s *ChatService) RemoveContact(sessionID, contactName string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	username, ok := s.sessions.NameOf(sessionID)
	if !ok {
		return
	}
	contactName = strings.TrimSpace(contactName)
	if contactName == "" {
		return
	}

	if err := s.contacts.Remove(sessionID, contactName); err != nil {
		s.deliverTo(sessionID, "contact_error", models.ContactError{Reason: err.Error()})
		return
	}

	chatID := models.PrivateChatID(username, contactName)
	if s.memberships.HasJoined(sessionID, chatID) {
		if conn, ok := s.conns[sessionID]; ok {
			s.transport.LeaveRoom(conn, chatID)
		}
		s.memberships.RecordLeave(sessionID, chatID)
	}

	s.deliverTo(sessionID, "contact_removed", models.ContactRemoved{ContactUsername: contactName})
}

// JoinPrivateChat joins the chat derived for (self, contact) and answers
// with its recent history. Already joined means nothing happens — the
// history was delivered the first time.
func (s *ChatService) JoinPrivateChat(sessionID, contactName string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	username, ok := s.sessions.NameOf(sessionID)
	if !ok {
		return
	}
	contactName = strings.TrimSpace(contactName)
	if contactName == "" {
		return
	}

	chatID := models.PrivateChatID(username, contactName)
	if s.memberships.HasJoined(sessionID, chatID) {
		return
	}
	if conn, ok := s.conns[sessionID]; ok {
		s.transport.JoinRoom(conn, chatID)
	}
	s.memberships.RecordJoin(sessionID, chatID)

	log.Printf("User %s joined private chat %s", username, chatID)

	s.deliverTo(sessionID, "chat_history", models.ChatHistory{
		ChatID:   chatID,
		Messages: s.messages.Tail(chatID, privateJoinHistory),
	})
}

// ChatHistory answers with up to the 100 most recent entries of the chat.
// Unidentified callers and inaccessible chats get no answer at all.
func (s *ChatService) ChatHistory(sessionID, chatID string) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.sessions.NameOf(sessionID); !ok {
		return
	}
	if chatID == "" {
		chatID = models.GeneralChatID
	}
	if !s.CanAccessChat(sessionID, chatID) {
		return
	}

	s.deliverTo(sessionID, "chat_history", models.ChatHistory{
		ChatID:   chatID,
		Messages: s.messages.Tail(chatID, historyPageSize),
	})
}

// OnlineUsers answers any connection, identified or not.
func (s *ChatService) OnlineUsers(connID string) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := s.sessions.ActiveNames()
	s.transport.Deliver(connID, "online_users", models.OnlineUsers{
		Users: users,
		Count: len(users),
	})
}

func (s *ChatService) UserContacts(sessionID string) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.sessions.NameOf(sessionID); !ok {
		return
	}
	s.deliverTo(sessionID, "user_contacts", models.UserContacts{
		Contacts: s.contacts.ListOf(sessionID),
	})
}

// UserStatus answers any connection; online means the exact name currently
// holds a session.
func (s *ChatService) UserStatus(connID, username string) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	username = strings.TrimSpace(username)
	_, online := s.sessions.SessionOf(username)
	s.transport.Deliver(connID, "user_status", models.UserStatus{
		Username: username,
		Online:   online,
	})
}

// deliverTo sends to the connection currently bound to the session, if any.
func (s *ChatService) deliverTo(sessionID, event string, payload any) {
	if conn, ok := s.conns[sessionID]; ok {
		s.transport.Deliver(conn, event, payload)
	}
}
