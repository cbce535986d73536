package ws

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"

	"navychat/models"
	"navychat/services"
)

// maxFrameSize bounds a single inbound frame.
const maxFrameSize = 50 * 1024

const writeWait = 10 * time.Second

// Client is one websocket connection. userID stays empty until the service
// accepts a set_username claim; it is only ever touched from readPump.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	id     string
	userID string
	closed bool // guarded by hub.mu
	svc    *services.ChatService
}

// readPump parses inbound envelopes and hands them to the service. Frames
// that do not decode are dropped: a malformed or half-delivered event is a
// routine client-side race, not an error worth answering.
func (c *Client) readPump() {
	defer func() {
		c.svc.Disconnect(c.id, c.userID)
		c.hub.removeClient(c)
		c.conn.Close()
		log.Printf("Client disconnected: %s", c.id)
	}()

	c.conn.SetReadLimit(maxFrameSize)
	c.conn.SetReadDeadline(time.Now().Add(c.hub.pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.hub.pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Client %s read error: %v", c.id, err)
			}
			break
		}

		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			continue
		}
		c.dispatch(env)
	}
}

func (c *Client) dispatch(env envelope) {
	switch env.Event {
	case "set_username":
		// Only an anonymous connection may claim a name.
		if c.userID != "" {
			return
		}
		var req models.SetUsernameRequest
		if json.Unmarshal(env.Data, &req) != nil {
			return
		}
		c.userID = c.svc.SetUsername(c.id, req.Username)

	case "get_chat_history":
		var req models.ChatHistoryRequest
		if json.Unmarshal(env.Data, &req) != nil {
			return
		}
		c.svc.ChatHistory(c.userID, req.ChatID)

	case "send_message":
		var req models.SendMessageRequest
		if json.Unmarshal(env.Data, &req) != nil {
			return
		}
		c.svc.SendMessage(c.userID, req)

	case "add_contact":
		var req models.ContactRequest
		if json.Unmarshal(env.Data, &req) != nil {
			return
		}
		c.svc.AddContact(c.userID, req.ContactUsername)

	case "remove_contact":
		var req models.ContactRequest
		if json.Unmarshal(env.Data, &req) != nil {
			return
		}
		c.svc.RemoveContact(c.userID, req.ContactUsername)

	case "join_private_chat":
		var req models.ContactRequest
		if json.Unmarshal(env.Data, &req) != nil {
			return
		}
		c.svc.JoinPrivateChat(c.userID, req.ContactUsername)

	case "get_online_users":
		c.svc.OnlineUsers(c.id)

	case "get_user_contacts":
		c.svc.UserContacts(c.userID)

	case "get_user_status":
		var req models.UserStatusRequest
		if json.Unmarshal(env.Data, &req) != nil {
			return
		}
		c.svc.UserStatus(c.id, req.Username)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(c.hub.pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				log.Printf("Client %s write error: %v", c.id, err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
