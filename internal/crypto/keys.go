package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"io"

	"golang.org/x/crypto/curve25519"
)

// KeySize is the length of X25519 scalars and points.
const KeySize = curve25519.ScalarSize

// randReader is the entropy source for keys and nonces. Tests swap it to
// exercise failure paths.
var randReader io.Reader = rand.Reader

// KeyRole tells the two halves of a key pair apart.
type KeyRole int

const (
	RolePublic KeyRole = iota + 1
	RolePrivate
)

func (r KeyRole) String() string {
	switch r {
	case RolePublic:
		return "public"
	case RolePrivate:
		return "private"
	default:
		return "unknown"
	}
}

// KeyHandle is implemented by *PublicKey and *PrivateKey.
type KeyHandle interface {
	Role() KeyRole
	Encode() string
}

// KeyPair holds both halves of a freshly generated pair in portable form.
type KeyPair struct {
	Public  string `json:"public"`
	Private string `json:"private"`
}

// PublicKey is an X25519 point.
type PublicKey struct {
	b [KeySize]byte
}

// PrivateKey is a clamped X25519 scalar together with its public point.
type PrivateKey struct {
	d   [KeySize]byte
	pub PublicKey
}

// GenerateKeyPair creates a fresh X25519 pair and exports both halves.
func GenerateKeyPair() (KeyPair, error) {
	priv, err := GeneratePrivateKey()
	if err != nil {
		return KeyPair{}, err
	}
	defer priv.Wipe()
	return KeyPair{
		Public:  priv.Public().Encode(),
		Private: priv.Encode(),
	}, nil
}

// GeneratePrivateKey draws a new clamped scalar.
func GeneratePrivateKey() (*PrivateKey, error) {
	var d [KeySize]byte
	if _, err := io.ReadFull(randReader, d[:]); err != nil {
		return nil, fmt.Errorf("read random scalar: %w", err)
	}
	clamp(&d)
	return newPrivateKey(d)
}

func clamp(d *[KeySize]byte) {
	d[0] &= 248
	d[31] &= 127
	d[31] |= 64
}

func newPrivateKey(d [KeySize]byte) (*PrivateKey, error) {
	pub, err := curve25519.X25519(d[:], curve25519.Basepoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyFormat, err)
	}
	k := &PrivateKey{d: d}
	copy(k.pub.b[:], pub)
	return k, nil
}

// NewPublicKey wraps a raw 32-byte point.
func NewPublicKey(b []byte) (*PublicKey, error) {
	if len(b) != KeySize {
		return nil, fmt.Errorf("%w: public key must be %d bytes, got %d", ErrKeyFormat, KeySize, len(b))
	}
	k := &PublicKey{}
	copy(k.b[:], b)
	return k, nil
}

func (*PublicKey) Role() KeyRole  { return RolePublic }
func (*PrivateKey) Role() KeyRole { return RolePrivate }

// Bytes returns a copy of the raw point.
func (k *PublicKey) Bytes() []byte {
	out := make([]byte, KeySize)
	copy(out, k.b[:])
	return out
}

// Equal reports whether k and o are the same point.
func (k *PublicKey) Equal(o *PublicKey) bool {
	if k == nil || o == nil {
		return k == o
	}
	return subtle.ConstantTimeCompare(k.b[:], o.b[:]) == 1
}

// Encode exports the key as base64(JWK).
func (k *PublicKey) Encode() string { return encodeJWK(publicJWK(k.b)) }

// Fingerprint returns the short display fingerprint of the key.
func (k *PublicKey) Fingerprint() string { return Fingerprint(k.b[:]) }

// Public returns the public half of k.
func (k *PrivateKey) Public() *PublicKey {
	p := k.pub
	return &p
}

// Encode exports the key as base64(JWK) including the private scalar.
func (k *PrivateKey) Encode() string { return encodeJWK(privateJWK(k.d, k.pub.b)) }

// Wipe zeroes the scalar. The key must not be used afterwards.
func (k *PrivateKey) Wipe() {
	if k == nil {
		return
	}
	Wipe(k.d[:])
}

// DecodeKey parses a portable key token. private selects the expected role;
// a token of the other role is rejected.
func DecodeKey(text string, private bool) (KeyHandle, error) {
	if private {
		return DecodePrivateKey(text)
	}
	return DecodePublicKey(text)
}

// DecodePublicKey parses a public key token.
func DecodePublicKey(text string) (*PublicKey, error) {
	k, err := decodeJWK(text)
	if err != nil {
		return nil, err
	}
	if k.D != "" {
		return nil, fmt.Errorf("%w: expected public key, got private", ErrKeyFormat)
	}
	x, err := decodeComponent("x", k.X)
	if err != nil {
		return nil, err
	}
	return &PublicKey{b: x}, nil
}

// DecodePrivateKey parses a private key token and checks that its public
// component belongs to the scalar.
func DecodePrivateKey(text string) (*PrivateKey, error) {
	k, err := decodeJWK(text)
	if err != nil {
		return nil, err
	}
	if k.D == "" {
		return nil, fmt.Errorf("%w: expected private key, got public", ErrKeyFormat)
	}
	d, err := decodeComponent("d", k.D)
	if err != nil {
		return nil, err
	}
	defer Wipe(d[:])
	priv, err := newPrivateKey(d)
	if err != nil {
		return nil, err
	}
	if k.X != "" {
		x, err := decodeComponent("x", k.X)
		if err != nil {
			priv.Wipe()
			return nil, err
		}
		if subtle.ConstantTimeCompare(x[:], priv.pub.b[:]) != 1 {
			priv.Wipe()
			return nil, fmt.Errorf("%w: public component does not match private scalar", ErrKeyFormat)
		}
	}
	return priv, nil
}
