package handlers

import (
	"log"
	"net/http"

	"navychat/services"
	"navychat/ws"
)

type WSHandler struct {
	hub *ws.Hub
	svc *services.ChatService
}

func NewWSHandler(h *ws.Hub, s *services.ChatService) *WSHandler {
	return &WSHandler{hub: h, svc: s}
}

// WS is the upgrade entry. No credentials: a connection identifies itself
// over the socket with set_username.
func (h *WSHandler) WS(w http.ResponseWriter, r *http.Request) {
	log.Printf("WebSocket connection attempt from %s", r.RemoteAddr)
	h.hub.ServeWS(w, r, h.svc)
}
