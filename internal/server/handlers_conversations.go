package server

import (
	"errors"
	"net/http"

	"pigeon/internal/domain"
	"pigeon/internal/relay"
)

func (s *Server) handleListConversations(w http.ResponseWriter, r *http.Request) {
	c, _ := claimsFrom(r.Context())
	list, err := s.store.ConversationsFor(r.Context(), c.userID())
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	if list == nil {
		list = []domain.ConversationEntry{}
	}
	writeJSON(w, list)
}

func (s *Server) handleConversationWith(w http.ResponseWriter, r *http.Request) {
	c, _ := claimsFrom(r.Context())
	conv, err := s.store.ConversationBetween(r.Context(), c.userID(), domain.UserID(r.PathValue("user")))
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, conv)
}

// handleCreateConversation returns the existing conversation for the pair
// with 200, or a new one with 201.
func (s *Server) handleCreateConversation(w http.ResponseWriter, r *http.Request) {
	c, _ := claimsFrom(r.Context())
	var in relay.NewConversation
	if !decodeBody(w, r, &in) {
		return
	}
	me := c.userID()
	if in.UserTwo == "" || in.UserTwo == me {
		writeError(w, http.StatusBadRequest, "user_two must be another user")
		return
	}
	if _, err := s.store.UserByID(r.Context(), in.UserTwo); err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	if conv, err := s.store.ConversationBetween(r.Context(), me, in.UserTwo); err == nil {
		writeJSON(w, conv)
		return
	} else if !errors.Is(err, domain.ErrNotFound) {
		s.writeStoreError(w, r, err)
		return
	}

	id, err := randomID()
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	conv := domain.ConversationEntry{
		ID:        domain.ConversationID(id),
		CreatedAt: s.now().UTC(),
		UserOne:   me,
		UserTwo:   in.UserTwo,
	}
	err = s.store.CreateConversation(r.Context(), conv)
	if errors.Is(err, domain.ErrConflict) {
		// lost a race with the peer
		existing, err := s.store.ConversationBetween(r.Context(), me, in.UserTwo)
		if err != nil {
			s.writeStoreError(w, r, err)
			return
		}
		writeJSON(w, existing)
		return
	}
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, conv)
}

// participantConversation loads {id} and checks the caller takes part.
func (s *Server) participantConversation(w http.ResponseWriter, r *http.Request) (domain.ConversationEntry, bool) {
	c, _ := claimsFrom(r.Context())
	conv, err := s.store.Conversation(r.Context(), domain.ConversationID(r.PathValue("id")))
	if err != nil {
		s.writeStoreError(w, r, err)
		return domain.ConversationEntry{}, false
	}
	if !conv.Has(c.userID()) {
		writeError(w, http.StatusForbidden, "not a participant")
		return domain.ConversationEntry{}, false
	}
	return conv, true
}
