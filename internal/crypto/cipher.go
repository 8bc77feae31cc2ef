package crypto

import (
	"fmt"
	"io"
	"unicode/utf8"
)

// NonceSize is the AES-GCM nonce length used for messages.
const NonceSize = 12

// EncryptedMessage is one sealed message: ciphertext with the GCM tag
// appended, and the nonce it was sealed under.
type EncryptedMessage struct {
	Ciphertext []byte
	Nonce      [NonceSize]byte
}

// Encrypt seals plaintext under s with a fresh random nonce. Nonces are
// random, not counted, so a secret should not seal much more than 2^32
// messages. Plaintext must be valid UTF-8, else ErrProtocol.
func Encrypt(plaintext string, s *SharedSecret) (EncryptedMessage, error) {
	if !utf8.ValidString(plaintext) {
		return EncryptedMessage{}, fmt.Errorf("%w: plaintext is not valid UTF-8", ErrProtocol)
	}
	aead, err := s.aead()
	if err != nil {
		return EncryptedMessage{}, err
	}
	var m EncryptedMessage
	if _, err := io.ReadFull(randReader, m.Nonce[:]); err != nil {
		return EncryptedMessage{}, fmt.Errorf("read nonce: %w", err)
	}
	m.Ciphertext = aead.Seal(nil, m.Nonce[:], []byte(plaintext), nil)
	return m, nil
}

// Decrypt opens m under s. Any authentication failure is ErrIntegrity;
// authenticated bytes that are not UTF-8 are ErrProtocol.
func Decrypt(m EncryptedMessage, s *SharedSecret) (string, error) {
	aead, err := s.aead()
	if err != nil {
		return "", err
	}
	pt, err := aead.Open(nil, m.Nonce[:], m.Ciphertext, nil)
	if err != nil {
		return "", ErrIntegrity
	}
	defer Wipe(pt)
	if !utf8.Valid(pt) {
		return "", fmt.Errorf("%w: plaintext is not valid UTF-8", ErrProtocol)
	}
	return string(pt), nil
}
