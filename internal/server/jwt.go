package server

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"pigeon/internal/domain"
)

var errInvalidToken = errors.New("invalid token")

// claims are carried by every access token.
type claims struct {
	Email domain.Email `json:"email"`
	jwt.RegisteredClaims
}

func (c *claims) userID() domain.UserID { return domain.UserID(c.Subject) }

type tokenSigner struct {
	priv ed25519.PrivateKey
	pub  ed25519.PublicKey
	iss  string
	ttl  time.Duration
	now  func() time.Time

	mu      sync.Mutex
	revoked map[string]time.Time // jti -> expiry
}

// newTokenSigner builds a signer from a base64 seed, or a random key when
// seed is empty.
func newTokenSigner(seed, iss string, ttl time.Duration) (*tokenSigner, error) {
	var priv ed25519.PrivateKey
	if seed == "" {
		var err error
		if _, priv, err = ed25519.GenerateKey(rand.Reader); err != nil {
			return nil, err
		}
	} else {
		b, err := base64.StdEncoding.DecodeString(seed)
		if err != nil || len(b) != ed25519.SeedSize {
			return nil, fmt.Errorf("signing key must be a base64 %d-byte seed", ed25519.SeedSize)
		}
		priv = ed25519.NewKeyFromSeed(b)
	}
	return &tokenSigner{
		priv:    priv,
		pub:     priv.Public().(ed25519.PublicKey),
		iss:     iss,
		ttl:     ttl,
		now:     time.Now,
		revoked: map[string]time.Time{},
	}, nil
}

func (s *tokenSigner) issue(u domain.UserID, email domain.Email) (domain.AuthSession, error) {
	now := s.now()
	exp := now.Add(s.ttl)
	c := claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.iss,
			Subject:   string(u),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        randomJTI(),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodEdDSA, c).SignedString(s.priv)
	if err != nil {
		return domain.AuthSession{}, err
	}
	return domain.AuthSession{
		AccessToken: tok,
		UserID:      u,
		Email:       email,
		ExpiresAt:   exp.UTC().Truncate(time.Second),
	}, nil
}

func (s *tokenSigner) parse(tok string) (*claims, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(tok, &c,
		func(*jwt.Token) (any, error) { return s.pub, nil },
		jwt.WithIssuer(s.iss),
		jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid || c.Subject == "" {
		return nil, errInvalidToken
	}
	if s.isRevoked(c.ID) {
		return nil, errInvalidToken
	}
	return &c, nil
}

// revoke rejects the token until it would have expired anyway.
func (s *tokenSigner) revoke(c *claims) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id, exp := range s.revoked {
		if now.After(exp) {
			delete(s.revoked, id)
		}
	}
	if c.ExpiresAt != nil {
		s.revoked[c.ID] = c.ExpiresAt.Time
	}
}

func (s *tokenSigner) isRevoked(jti string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.revoked[jti]
	return ok
}

func randomJTI() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
