package relay

import "pigeon/internal/domain"

// Request and response bodies shared by the relay client and server.

// Credentials is the body of sign-up and sign-in.
type Credentials struct {
	Email    domain.Email `json:"email"`
	Password string       `json:"password"`
}

// PublicKeyBody is the body of PUT /public-keys.
type PublicKeyBody struct {
	Key string `json:"key"`
}

// NewConversation is the body of POST /conversations.
type NewConversation struct {
	UserTwo domain.UserID `json:"user_two"`
}

// NewMessage is the body of POST /conversations/{id}/messages.
type NewMessage struct {
	Contents string `json:"contents"`
}

// ErrorBody is returned with every non-2xx response.
type ErrorBody struct {
	Error string `json:"error"`
}

// AuthHeader carries the bearer token.
const AuthHeader = "Authorization"
