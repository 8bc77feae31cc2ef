package interfaces

import (
	"context"

	domaintypes "pigeon/internal/domain/types"
)

// PassphrasePrompter asks the user for passphrases on behalf of
// IdentityService.EnsureUnlocked.
type PassphrasePrompter interface {
	// NewPassphrase asks for a passphrase to protect a fresh key pair.
	NewPassphrase(ctx context.Context) (string, error)
	// Passphrase asks for the existing passphrase. attempt starts at 1.
	Passphrase(ctx context.Context, attempt int) (string, error)
}

// IdentityService creates, unlocks and inspects the user's key pair.
type IdentityService interface {
	Setup(ctx context.Context, passphrase string) (domaintypes.Fingerprint, error)
	Unlock(ctx context.Context, passphrase string) error
	EnsureUnlocked(ctx context.Context, prompt PassphrasePrompter, maxAttempts int) error
	ChangePassphrase(ctx context.Context, oldPassphrase, newPassphrase string) error
	Fingerprint(ctx context.Context) (domaintypes.Fingerprint, error)
	Lock()
}

// ConversationService manages contacts and their conversations.
type ConversationService interface {
	Add(ctx context.Context, email domaintypes.Email) (domaintypes.Contact, error)
	Lookup(ctx context.Context, email domaintypes.Email) (domaintypes.Contact, error)
	Sync(ctx context.Context) ([]domaintypes.Contact, error)
	Open(ctx context.Context, peer domaintypes.UserID) (domaintypes.Contact, error)
	Contacts() ([]domaintypes.Contact, error)
	Remove(peer domaintypes.UserID) error
}

// MessageService encrypts, sends, fetches and decrypts messages.
type MessageService interface {
	Send(ctx context.Context, peer domaintypes.UserID, text string) (domaintypes.MessageEntry, error)
	History(ctx context.Context, peer domaintypes.UserID) ([]domaintypes.DecryptedMessage, error)
	Watch(ctx context.Context, peer domaintypes.UserID, fn func(domaintypes.DecryptedMessage)) error
}
