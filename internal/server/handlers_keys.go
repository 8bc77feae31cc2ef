package server

import (
	"net/http"

	"pigeon/internal/crypto"
	"pigeon/internal/domain"
	"pigeon/internal/relay"
)

func (s *Server) handlePutPublicKey(w http.ResponseWriter, r *http.Request) {
	c, _ := claimsFrom(r.Context())
	var in relay.PublicKeyBody
	if !decodeBody(w, r, &in) {
		return
	}
	// Rejects private keys sent by mistake as well as junk.
	if _, err := crypto.DecodePublicKey(in.Key); err != nil {
		writeError(w, http.StatusBadRequest, "malformed public key")
		return
	}
	rec := domain.PublicKeyRecord{UserID: c.userID(), Key: in.Key}
	if err := s.store.PutPublicKey(r.Context(), rec); err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, rec)
}

func (s *Server) handleGetPublicKey(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.PublicKey(r.Context(), domain.UserID(r.PathValue("user")))
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, rec)
}

func (s *Server) handlePutPrivateKey(w http.ResponseWriter, r *http.Request) {
	c, _ := claimsFrom(r.Context())
	var rec domain.PrivateKeyRecord
	if !decodeBody(w, r, &rec) {
		return
	}
	if rec.EncodedKey == "" || !rec.Recipe.Complete() {
		writeError(w, http.StatusBadRequest, "wrapped key and completed recipe required")
		return
	}
	rec.UserID = c.userID()
	if err := s.store.PutPrivateKey(r.Context(), rec); err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetPrivateKey(w http.ResponseWriter, r *http.Request) {
	c, _ := claimsFrom(r.Context())
	user := domain.UserID(r.PathValue("user"))
	if user != c.userID() {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}
	rec, err := s.store.PrivateKey(r.Context(), user)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, rec)
}
