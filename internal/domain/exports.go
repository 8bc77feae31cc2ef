package domain

import (
	interfaces "pigeon/internal/domain/interfaces"
	types "pigeon/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	UserID            = types.UserID
	Email             = types.Email
	ConversationID    = types.ConversationID
	MessageID         = types.MessageID
	Fingerprint       = types.Fingerprint
	User              = types.User
	AuthSession       = types.AuthSession
	AccountProfile    = types.AccountProfile
	PublicKeyRecord   = types.PublicKeyRecord
	PrivateKeyRecord  = types.PrivateKeyRecord
	ConversationEntry = types.ConversationEntry
	MessageEntry      = types.MessageEntry
	DecryptedMessage  = types.DecryptedMessage
	Contact           = types.Contact
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	RelayClient         = interfaces.RelayClient
	AccountStore        = interfaces.AccountStore
	ContactStore        = interfaces.ContactStore
	PassphrasePrompter  = interfaces.PassphrasePrompter
	IdentityService     = interfaces.IdentityService
	ConversationService = interfaces.ConversationService
	MessageService      = interfaces.MessageService
)

// FailedText replaces the text of a message that did not decrypt.
const FailedText = types.FailedText

// Sentinel errors, matched with errors.Is.
var (
	ErrNotFound     = types.ErrNotFound
	ErrConflict     = types.ErrConflict
	ErrUnauthorized = types.ErrUnauthorized
	ErrForbidden    = types.ErrForbidden
)
