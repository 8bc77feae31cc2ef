package types

import "pigeon/internal/vault"

// PublicKeyRecord is a user's published public key token.
type PublicKeyRecord struct {
	UserID UserID `json:"user"`
	Key    string `json:"key"`
}

// PrivateKeyRecord is a user's wrapped private key as stored on the relay.
type PrivateKeyRecord struct {
	UserID     UserID       `json:"user_id"`
	EncodedKey string       `json:"encoded_key"`
	Recipe     vault.Recipe `json:"recipe"`
}

// Wrapped returns the record as a vault.WrappedKey.
func (r PrivateKeyRecord) Wrapped() vault.WrappedKey {
	return vault.WrappedKey{EncryptedKey: r.EncodedKey, Recipe: r.Recipe}
}
