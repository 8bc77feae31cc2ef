package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
	"sync"

	"golang.org/x/crypto/curve25519"
)

// SharedSecret is the AES-256-GCM key two parties agree on for one
// conversation. It has no export path; Destroy zeroes it.
type SharedSecret struct {
	mu        sync.RWMutex
	key       [KeySize]byte
	destroyed bool
}

// DeriveSharedSecret runs X25519 between local and remote. The 32-byte
// agreement is used directly as the AES-256 key, matching WebCrypto's
// deriveKey with an AES-GCM/256 target.
func DeriveSharedSecret(local *PrivateKey, remote *PublicKey) (*SharedSecret, error) {
	if local == nil || remote == nil {
		return nil, fmt.Errorf("%w: missing key", ErrKeyFormat)
	}
	out, err := curve25519.X25519(local.d[:], remote.b[:])
	if err != nil {
		// low-order point
		return nil, fmt.Errorf("%w: %v", ErrKeyFormat, err)
	}
	s := &SharedSecret{}
	copy(s.key[:], out)
	Wipe(out)
	return s, nil
}

// Destroy zeroes the key. Later use fails with ErrSecretDestroyed.
func (s *SharedSecret) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	Wipe(s.key[:])
	s.destroyed = true
}

// Destroyed reports whether Destroy has been called.
func (s *SharedSecret) Destroyed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.destroyed
}

// String keeps the key out of formatted output.
func (s *SharedSecret) String() string { return "SharedSecret(redacted)" }

func (s *SharedSecret) aead() (cipher.AEAD, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: missing shared secret", ErrKeyFormat)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.destroyed {
		return nil, ErrSecretDestroyed
	}
	block, err := aes.NewCipher(s.key[:])
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
