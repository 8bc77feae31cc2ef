package crypto

import "errors"

var (
	// ErrDecoding is returned when a text token is not valid base64.
	ErrDecoding = errors.New("malformed base64 text")

	// ErrKeyFormat is returned when an encoded key is malformed or does not
	// match the role it is decoded for.
	ErrKeyFormat = errors.New("malformed or role-mismatched key")

	// ErrIntegrity is returned when AEAD authentication fails. It covers
	// tampered ciphertext, a wrong shared secret and a wrong passphrase alike.
	ErrIntegrity = errors.New("message authentication failed")

	// ErrProtocol is returned when authenticated data is not what the
	// message layer expects, e.g. invalid UTF-8 or a malformed contents record.
	ErrProtocol = errors.New("protocol violation")

	// ErrSecretDestroyed is returned when a destroyed SharedSecret is used.
	ErrSecretDestroyed = errors.New("shared secret has been destroyed")
)
