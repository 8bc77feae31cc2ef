package interfaces

import (
	"context"

	domaintypes "pigeon/internal/domain/types"
)

// RelayClient is how we talk to the relay server, all with context.
//
// Lookups that find nothing return ok=false with a nil error.
type RelayClient interface {
	SignUp(ctx context.Context, email domaintypes.Email, password string) (domaintypes.AuthSession, error)
	SignIn(ctx context.Context, email domaintypes.Email, password string) (domaintypes.AuthSession, error)
	SignOut(ctx context.Context) error
	CurrentUser(ctx context.Context) (domaintypes.User, error)
	SetSession(session domaintypes.AuthSession)

	UserIDByEmail(ctx context.Context, email domaintypes.Email) (domaintypes.UserID, bool, error)
	EmailByUserID(ctx context.Context, id domaintypes.UserID) (domaintypes.Email, bool, error)

	StorePublicKey(ctx context.Context, key string) error
	PublicKey(ctx context.Context, user domaintypes.UserID) (string, bool, error)
	StorePrivateKey(ctx context.Context, record domaintypes.PrivateKeyRecord) error
	PrivateKey(ctx context.Context, user domaintypes.UserID) (domaintypes.PrivateKeyRecord, bool, error)

	Conversations(ctx context.Context) ([]domaintypes.ConversationEntry, error)
	ConversationWith(ctx context.Context, peer domaintypes.UserID) (domaintypes.ConversationEntry, bool, error)
	CreateConversation(ctx context.Context, peer domaintypes.UserID) (domaintypes.ConversationEntry, error)

	Messages(ctx context.Context, conv domaintypes.ConversationID) ([]domaintypes.MessageEntry, error)
	SendMessage(ctx context.Context, conv domaintypes.ConversationID, contents string) (domaintypes.MessageEntry, error)

	// Subscribe calls fn for every message pushed on conv until ctx is done
	// or the connection drops.
	Subscribe(ctx context.Context, conv domaintypes.ConversationID, fn func(domaintypes.MessageEntry)) error
}
