package storage

import (
	"context"
	"time"

	"pigeon/internal/domain"
)

// Lookup and uniqueness failures. They are the domain sentinels so callers
// further up can match either.
var (
	ErrNotFound = domain.ErrNotFound
	ErrConflict = domain.ErrConflict
)

// User is an account row. PasswordHash is an encoded argon2id hash.
type User struct {
	ID           domain.UserID `json:"id" bson:"_id"`
	Email        domain.Email  `json:"email" bson:"email"`
	PasswordHash string        `json:"password_hash" bson:"password_hash"`
	CreatedAt    time.Time     `json:"created_at" bson:"created_at"`
}

// Store is implemented by every backend.
type Store interface {
	// CreateUser inserts u; a taken email is ErrConflict.
	CreateUser(ctx context.Context, u User) error
	UserByEmail(ctx context.Context, email domain.Email) (User, error)
	UserByID(ctx context.Context, id domain.UserID) (User, error)

	// PutPublicKey and PutPrivateKey upsert by user id.
	PutPublicKey(ctx context.Context, rec domain.PublicKeyRecord) error
	PublicKey(ctx context.Context, user domain.UserID) (domain.PublicKeyRecord, error)
	PutPrivateKey(ctx context.Context, rec domain.PrivateKeyRecord) error
	PrivateKey(ctx context.Context, user domain.UserID) (domain.PrivateKeyRecord, error)

	// CreateConversation inserts c; if the unordered pair already has a
	// conversation it returns ErrConflict.
	CreateConversation(ctx context.Context, c domain.ConversationEntry) error
	Conversation(ctx context.Context, id domain.ConversationID) (domain.ConversationEntry, error)
	ConversationBetween(ctx context.Context, a, b domain.UserID) (domain.ConversationEntry, error)
	// ConversationsFor lists conversations u takes part in, oldest first.
	ConversationsFor(ctx context.Context, u domain.UserID) ([]domain.ConversationEntry, error)

	AppendMessage(ctx context.Context, m domain.MessageEntry) error
	// Messages lists a conversation's messages in creation order.
	Messages(ctx context.Context, conv domain.ConversationID) ([]domain.MessageEntry, error)

	Close() error
}

// pairKey names an unordered pair of users.
func pairKey(a, b domain.UserID) string {
	if b < a {
		a, b = b, a
	}
	return string(a) + "|" + string(b)
}
