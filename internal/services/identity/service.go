package identity

import (
	"context"
	"errors"
	"fmt"
	"unicode"

	"github.com/sirupsen/logrus"

	"pigeon/internal/crypto"
	"pigeon/internal/domain"
	"pigeon/internal/services/session"
	"pigeon/internal/vault"
)

const (
	// minPassphraseLength defines the minimum number of characters required for a passphrase.
	minPassphraseLength = 12
)

var (
	// ErrWeakPassphrase is returned when the passphrase fails the strength policy.
	ErrWeakPassphrase = fmt.Errorf(
		"passphrase is too weak (must be at least %d characters and include upper, lower, "+
			"number, and symbol)",
		minPassphraseLength,
	)
	// ErrNoKeyMaterial means the relay has no wrapped private key for this
	// account; the caller should run Setup.
	ErrNoKeyMaterial = errors.New("no key material on relay")
	// ErrKeyMaterialExists stops Setup from replacing an existing key pair.
	ErrKeyMaterialExists = errors.New("key material already exists on relay")
	// ErrCanceled is returned when the passphrase prompt was abandoned.
	ErrCanceled = errors.New("passphrase entry canceled")
)

// Service creates, unlocks and re-wraps the account key pair.
type Service struct {
	relay  domain.RelayClient
	keys   *session.Keyring
	recipe vault.Recipe
	log    logrus.FieldLogger
}

// New returns an identity service. recipe is the template used for new
// wraps; a zero recipe means vault.DefaultRecipe.
func New(relay domain.RelayClient, keys *session.Keyring, recipe vault.Recipe, log logrus.FieldLogger) *Service {
	if recipe.Version == 0 {
		recipe = vault.DefaultRecipe()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{relay: relay, keys: keys, recipe: recipe, log: log}
}

// Setup generates a key pair, stores the wrapped private key and the public
// key on the relay, and unlocks the keyring with it.
func (s *Service) Setup(ctx context.Context, passphrase string) (domain.Fingerprint, error) {
	if !isSecurePassphrase(passphrase) {
		return "", ErrWeakPassphrase
	}
	me, err := s.relay.CurrentUser(ctx)
	if err != nil {
		return "", err
	}
	if _, ok, err := s.relay.PrivateKey(ctx, me.ID); err != nil {
		return "", err
	} else if ok {
		return "", ErrKeyMaterialExists
	}

	pair, err := crypto.GenerateKeyPair()
	if err != nil {
		return "", err
	}
	wrapped, err := vault.Wrap(pair.Private, passphrase, s.recipe)
	if err != nil {
		return "", fmt.Errorf("wrap private key: %w", err)
	}
	priv, err := crypto.DecodePrivateKey(pair.Private)
	if err != nil {
		return "", err
	}

	rec := domain.PrivateKeyRecord{UserID: me.ID, EncodedKey: wrapped.EncryptedKey, Recipe: wrapped.Recipe}
	if err := s.relay.StorePrivateKey(ctx, rec); err != nil {
		priv.Wipe()
		return "", fmt.Errorf("store private key: %w", err)
	}
	if err := s.relay.StorePublicKey(ctx, pair.Public); err != nil {
		priv.Wipe()
		return "", fmt.Errorf("publish public key: %w", err)
	}

	s.keys.SetPrivateKey(priv)
	fp := domain.Fingerprint(priv.Public().Fingerprint())
	s.log.WithField("fingerprint", fp).Info("key pair created")
	return fp, nil
}

// Unlock fetches the wrapped private key and loads it into the keyring.
// A wrong passphrase is crypto.ErrIntegrity.
func (s *Service) Unlock(ctx context.Context, passphrase string) error {
	me, rec, err := s.record(ctx)
	if err != nil {
		return err
	}
	return s.unlock(ctx, me, rec, passphrase)
}

// EnsureUnlocked leaves the keyring unlocked, prompting as needed. A new
// account is asked for a fresh passphrase and set up; an existing one gets
// up to maxAttempts tries, retrying only on a wrong passphrase.
func (s *Service) EnsureUnlocked(ctx context.Context, prompt domain.PassphrasePrompter, maxAttempts int) error {
	if s.keys.Unlocked() {
		return nil
	}
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	me, rec, err := s.record(ctx)
	if errors.Is(err, ErrNoKeyMaterial) {
		pass, err := prompt.NewPassphrase(ctx)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrCanceled, err)
		}
		_, err = s.Setup(ctx, pass)
		return err
	}
	if err != nil {
		return err
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		pass, err := prompt.Passphrase(ctx, attempt)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrCanceled, err)
		}
		err = s.unlock(ctx, me, rec, pass)
		if err == nil {
			return nil
		}
		if !errors.Is(err, crypto.ErrIntegrity) {
			return err
		}
		s.log.WithField("attempt", attempt).Warn("wrong passphrase")
	}
	return fmt.Errorf("%w: %d attempts", crypto.ErrIntegrity, maxAttempts)
}

// ChangePassphrase re-wraps the private key under newPassphrase with the
// configured recipe.
func (s *Service) ChangePassphrase(ctx context.Context, oldPassphrase, newPassphrase string) error {
	if !isSecurePassphrase(newPassphrase) {
		return ErrWeakPassphrase
	}
	me, rec, err := s.record(ctx)
	if err != nil {
		return err
	}
	wrapped, err := vault.Rewrap(rec.EncodedKey, oldPassphrase, newPassphrase, rec.Recipe, s.recipe)
	if err != nil {
		return err
	}
	next := domain.PrivateKeyRecord{UserID: me.ID, EncodedKey: wrapped.EncryptedKey, Recipe: wrapped.Recipe}
	if err := s.relay.StorePrivateKey(ctx, next); err != nil {
		return fmt.Errorf("store private key: %w", err)
	}
	s.log.Info("passphrase changed")
	return nil
}

// Fingerprint returns the fingerprint of the account's public key, from the
// keyring when unlocked and from the relay otherwise.
func (s *Service) Fingerprint(ctx context.Context) (domain.Fingerprint, error) {
	if priv, ok := s.keys.PrivateKey(); ok {
		return domain.Fingerprint(priv.Public().Fingerprint()), nil
	}
	me, err := s.relay.CurrentUser(ctx)
	if err != nil {
		return "", err
	}
	text, ok, err := s.relay.PublicKey(ctx, me.ID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrNoKeyMaterial
	}
	pub, err := crypto.DecodePublicKey(text)
	if err != nil {
		return "", err
	}
	return domain.Fingerprint(pub.Fingerprint()), nil
}

// Lock wipes the keyring.
func (s *Service) Lock() { s.keys.Clear() }

func (s *Service) record(ctx context.Context) (domain.User, domain.PrivateKeyRecord, error) {
	me, err := s.relay.CurrentUser(ctx)
	if err != nil {
		return domain.User{}, domain.PrivateKeyRecord{}, err
	}
	rec, ok, err := s.relay.PrivateKey(ctx, me.ID)
	if err != nil {
		return domain.User{}, domain.PrivateKeyRecord{}, err
	}
	if !ok {
		return domain.User{}, domain.PrivateKeyRecord{}, ErrNoKeyMaterial
	}
	return me, rec, nil
}

func (s *Service) unlock(ctx context.Context, me domain.User, rec domain.PrivateKeyRecord, passphrase string) error {
	text, err := vault.Unwrap(rec.EncodedKey, passphrase, rec.Recipe)
	if err != nil {
		return err
	}
	priv, err := crypto.DecodePrivateKey(text)
	if err != nil {
		return err
	}

	// Republish a missing public key so peers can reach us.
	if _, ok, err := s.relay.PublicKey(ctx, me.ID); err != nil {
		priv.Wipe()
		return err
	} else if !ok {
		if err := s.relay.StorePublicKey(ctx, priv.Public().Encode()); err != nil {
			priv.Wipe()
			return fmt.Errorf("publish public key: %w", err)
		}
		s.log.Warn("public key was missing on relay; republished")
	}

	s.keys.SetPrivateKey(priv)
	return nil
}

// isSecurePassphrase enforces a basic strength policy.
func isSecurePassphrase(passphrase string) bool {
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	if len(passphrase) < minPassphraseLength {
		return false
	}
	for _, r := range passphrase {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r), unicode.IsSymbol(r):
			hasSymbol = true
		}
	}
	return hasUpper && hasLower && hasDigit && hasSymbol
}

// Compile-time assertion that Service implements domain.IdentityService.
var _ domain.IdentityService = (*Service)(nil)
