package server

import "net/http"

func (s *Server) routes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)

	s.mux.HandleFunc("POST /auth/signup", s.limited(s.rlAuth, s.handleSignUp))
	s.mux.HandleFunc("POST /auth/signin", s.limited(s.rlAuth, s.handleSignIn))
	s.mux.HandleFunc("POST /auth/signout", s.authRequired(s.handleSignOut))
	s.mux.HandleFunc("GET /auth/user", s.authRequired(s.handleCurrentUser))

	s.mux.HandleFunc("GET /users", s.authRequired(s.handleUserByEmail))
	s.mux.HandleFunc("GET /users/{id}", s.authRequired(s.handleUserByID))

	s.mux.HandleFunc("PUT /public-keys", s.authRequired(s.handlePutPublicKey))
	s.mux.HandleFunc("GET /public-keys/{user}", s.authRequired(s.handleGetPublicKey))
	s.mux.HandleFunc("PUT /private-keys", s.authRequired(s.handlePutPrivateKey))
	s.mux.HandleFunc("GET /private-keys/{user}", s.authRequired(s.handleGetPrivateKey))

	s.mux.HandleFunc("GET /conversations", s.authRequired(s.handleListConversations))
	s.mux.HandleFunc("POST /conversations", s.authRequired(s.handleCreateConversation))
	s.mux.HandleFunc("GET /conversations/with/{user}", s.authRequired(s.handleConversationWith))
	s.mux.HandleFunc("GET /conversations/{id}/messages", s.authRequired(s.handleListMessages))
	s.mux.HandleFunc("POST /conversations/{id}/messages", s.authRequired(s.handlePostMessage))
	s.mux.HandleFunc("GET /conversations/{id}/subscribe", s.authRequired(s.handleSubscribe))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
