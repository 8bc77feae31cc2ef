package server

import (
	"errors"
	"net/http"
	"strings"

	"pigeon/internal/domain"
	"pigeon/internal/relay"
	"pigeon/internal/storage"
)

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var in relay.Credentials
	if !decodeBody(w, r, &in) {
		return
	}
	email := normalizeEmail(in.Email)
	if !isValidEmail(email) {
		writeError(w, http.StatusBadRequest, "invalid email")
		return
	}
	if len(in.Password) < s.cfg.MinPassword || strings.TrimSpace(in.Password) == "" {
		writeError(w, http.StatusBadRequest, "password too short")
		return
	}

	hash, err := hashPassword(s.hashing, in.Password)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	id, err := randomID()
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	u := storage.User{ID: domain.UserID(id), Email: email, PasswordHash: hash, CreatedAt: s.now().UTC()}
	if err := s.store.CreateUser(r.Context(), u); err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	sess, err := s.signer.issue(u.ID, u.Email)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	s.log.WithField("user", u.ID).Info("account created")
	writeJSONStatus(w, http.StatusCreated, sess)
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var in relay.Credentials
	if !decodeBody(w, r, &in) {
		return
	}
	u, err := s.store.UserByEmail(r.Context(), normalizeEmail(in.Email))
	if errors.Is(err, domain.ErrNotFound) {
		// same cost as a real check
		_, _ = verifyPassword(in.Password, dummyHash)
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	ok, err := verifyPassword(in.Password, u.PasswordHash)
	if err != nil || !ok {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	sess, err := s.signer.issue(u.ID, u.Email)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, sess)
}

// dummyHash is verified against when the email is unknown.
var dummyHash, _ = hashPassword(defaultArgon, "pigeon-dummy-password")

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	c, _ := claimsFrom(r.Context())
	s.signer.revoke(c)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	c, _ := claimsFrom(r.Context())
	writeJSON(w, domain.User{ID: c.userID(), Email: c.Email})
}

func (s *Server) handleUserByEmail(w http.ResponseWriter, r *http.Request) {
	email := normalizeEmail(domain.Email(r.URL.Query().Get("email")))
	if email == "" {
		writeError(w, http.StatusBadRequest, "email required")
		return
	}
	u, err := s.store.UserByEmail(r.Context(), email)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, domain.User{ID: u.ID})
}

func (s *Server) handleUserByID(w http.ResponseWriter, r *http.Request) {
	u, err := s.store.UserByID(r.Context(), domain.UserID(r.PathValue("id")))
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, domain.User{ID: u.ID, Email: u.Email})
}
