package session

import (
	"errors"
	"sync"

	"pigeon/internal/crypto"
	"pigeon/internal/domain"
)

// ErrLocked is returned when no private key has been loaded.
var ErrLocked = errors.New("keyring is locked")

type cached struct {
	peer   *crypto.PublicKey
	secret *crypto.SharedSecret
}

// Keyring caches the private key and per-conversation shared secrets.
// It is safe for concurrent use.
type Keyring struct {
	mu      sync.RWMutex
	priv    *crypto.PrivateKey
	secrets map[domain.ConversationID]cached
}

// NewKeyring returns a locked keyring.
func NewKeyring() *Keyring {
	return &Keyring{secrets: make(map[domain.ConversationID]cached)}
}

// SetPrivateKey unlocks the keyring with k, replacing and destroying any
// previous key and every cached secret.
func (r *Keyring) SetPrivateKey(k *crypto.PrivateKey) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clearLocked()
	r.priv = k
}

// PrivateKey returns the loaded key.
func (r *Keyring) PrivateKey() (*crypto.PrivateKey, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.priv, r.priv != nil
}

func (r *Keyring) Unlocked() bool {
	_, ok := r.PrivateKey()
	return ok
}

// Secret returns the shared secret for conv, deriving it on first use. A
// different peer key for the same conversation replaces the cached secret.
func (r *Keyring) Secret(conv domain.ConversationID, peer *crypto.PublicKey) (*crypto.SharedSecret, error) {
	r.mu.RLock()
	c, ok := r.secrets[conv]
	locked := r.priv == nil
	r.mu.RUnlock()
	if locked {
		return nil, ErrLocked
	}
	if ok && c.peer.Equal(peer) && !c.secret.Destroyed() {
		return c.secret, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.priv == nil {
		return nil, ErrLocked
	}
	if c, ok := r.secrets[conv]; ok {
		if c.peer.Equal(peer) && !c.secret.Destroyed() {
			return c.secret, nil
		}
		c.secret.Destroy()
	}
	s, err := crypto.DeriveSharedSecret(r.priv, peer)
	if err != nil {
		return nil, err
	}
	r.secrets[conv] = cached{peer: peer, secret: s}
	return s, nil
}

// Forget destroys the cached secret for conv.
func (r *Keyring) Forget(conv domain.ConversationID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.secrets[conv]; ok {
		c.secret.Destroy()
		delete(r.secrets, conv)
	}
}

// Clear destroys every secret and wipes the private key.
func (r *Keyring) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clearLocked()
}

func (r *Keyring) clearLocked() {
	for id, c := range r.secrets {
		c.secret.Destroy()
		delete(r.secrets, id)
	}
	if r.priv != nil {
		r.priv.Wipe()
		r.priv = nil
	}
}
