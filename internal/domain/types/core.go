package types

// UserID is the relay-assigned identifier of an account.
type UserID string

// String returns the string form of the user identifier.
func (id UserID) String() string { return string(id) }

// Email is the address an account signs in with.
type Email string

// String returns the string form of the email.
func (e Email) String() string { return string(e) }

// ConversationID identifies a two-party conversation on the relay.
type ConversationID string

// String returns the string form of the conversation identifier.
func (id ConversationID) String() string { return string(id) }

// MessageID identifies a stored message.
type MessageID string

// String returns the string form of the message identifier.
func (id MessageID) String() string { return string(id) }

// Fingerprint is a short identifier for public keys presented to users.
type Fingerprint string

// String returns the string form of the fingerprint.
func (f Fingerprint) String() string { return string(f) }
