package server

import (
	"net/http"
	"time"

	"golang.org/x/net/websocket"

	"pigeon/internal/domain"
	"pigeon/internal/relay"
)

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	conv, ok := s.participantConversation(w, r)
	if !ok {
		return
	}
	msgs, err := s.store.Messages(r.Context(), conv.ID)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	if msgs == nil {
		msgs = []domain.MessageEntry{}
	}
	writeJSON(w, msgs)
}

// handlePostMessage stores contents verbatim. The relay never looks inside.
func (s *Server) handlePostMessage(w http.ResponseWriter, r *http.Request) {
	conv, ok := s.participantConversation(w, r)
	if !ok {
		return
	}
	c, _ := claimsFrom(r.Context())
	var in relay.NewMessage
	if !decodeBody(w, r, &in) {
		return
	}
	if in.Contents == "" {
		writeError(w, http.StatusBadRequest, "contents required")
		return
	}
	if len(in.Contents) > s.cfg.MaxMessageBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "message too large")
		return
	}

	id, err := randomID()
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	m := domain.MessageEntry{
		ID:             domain.MessageID(id),
		CreatedAt:      s.now().UTC(),
		Sender:         c.userID(),
		Contents:       in.Contents,
		ConversationID: conv.ID,
	}
	if err := s.store.AppendMessage(r.Context(), m); err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	s.hub.publish(m)
	writeJSONStatus(w, http.StatusCreated, m)
}

// handleSubscribe upgrades to a WebSocket that receives every message
// posted to the conversation from now on. The subscriber is registered
// before the upgrade is answered, so nothing posted after the client's
// dial returns is missed.
func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	conv, ok := s.participantConversation(w, r)
	if !ok {
		return
	}
	sub, ok := s.hub.subscribe(conv.ID)
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "relay shutting down")
		return
	}
	defer s.hub.unsubscribe(sub)

	ws := websocket.Server{
		// Auth is by bearer token, not by origin.
		Handshake: func(*websocket.Config, *http.Request) error { return nil },
		Handler:   func(conn *websocket.Conn) { s.serveSubscription(conn, sub) },
	}
	ws.ServeHTTP(w, r)
}

func (s *Server) serveSubscription(conn *websocket.Conn, sub *subscriber) {
	defer conn.Close()

	// Reader detects the client going away.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			var msg []byte
			if err := websocket.Message.Receive(conn, &msg); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case m, ok := <-sub.send:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := websocket.JSON.Send(conn, m); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := websocket.JSON.Send(conn, map[string]string{"type": "ping"}); err != nil {
				return
			}
		case <-gone:
			return
		}
	}
}
