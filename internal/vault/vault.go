package vault

import (
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"
	"unicode/utf8"

	"pigeon/internal/crypto"
)

var randReader io.Reader = rand.Reader

// WrappedKey is the stored form of a private key.
type WrappedKey struct {
	EncryptedKey string `json:"encoded_key"`
	Recipe       Recipe `json:"recipe"`
}

// Wrap seals privateKeyText under passphrase following template. Salt and
// iv on the template are ignored and replaced by fresh random values.
// privateKeyText must be valid UTF-8.
func Wrap(privateKeyText, passphrase string, template Recipe) (WrappedKey, error) {
	if !utf8.ValidString(privateKeyText) {
		return WrappedKey{}, fmt.Errorf("%w: private key is not valid UTF-8", crypto.ErrProtocol)
	}
	r := template.Template()
	if err := r.Validate(); err != nil {
		return WrappedKey{}, err
	}

	salt := make([]byte, r.SaltLength)
	iv := make([]byte, r.IVLength)
	if _, err := io.ReadFull(randReader, salt); err != nil {
		return WrappedKey{}, fmt.Errorf("read salt: %w", err)
	}
	if _, err := io.ReadFull(randReader, iv); err != nil {
		return WrappedKey{}, fmt.Errorf("read iv: %w", err)
	}

	aead, err := open(passphrase, salt, r)
	if err != nil {
		return WrappedKey{}, err
	}
	pt := []byte(privateKeyText)
	ct := aead.Seal(nil, iv, pt, nil)
	crypto.Wipe(pt)

	r.Salt = crypto.ToText(salt)
	r.IV = crypto.ToText(iv)
	return WrappedKey{EncryptedKey: crypto.ToText(ct), Recipe: r}, nil
}

// Unwrap reverses Wrap. A wrong passphrase and a tampered ciphertext both
// fail with crypto.ErrIntegrity.
func Unwrap(encryptedKey, passphrase string, r Recipe) (string, error) {
	if !r.Complete() {
		return "", ErrRecipeIncomplete
	}
	if err := r.Validate(); err != nil {
		return "", err
	}

	salt, err := crypto.FromText(r.Salt)
	if err != nil {
		return "", fmt.Errorf("recipe salt: %w", err)
	}
	iv, err := crypto.FromText(r.IV)
	if err != nil {
		return "", fmt.Errorf("recipe iv: %w", err)
	}
	if len(salt) != r.SaltLength || len(iv) != r.IVLength {
		return "", fmt.Errorf("%w: salt or iv does not match declared length", ErrRecipeInvalid)
	}
	ct, err := crypto.FromText(encryptedKey)
	if err != nil {
		return "", fmt.Errorf("encrypted key: %w", err)
	}

	aead, err := open(passphrase, salt, r)
	if err != nil {
		return "", err
	}
	pt, err := aead.Open(nil, iv, ct, nil)
	if err != nil {
		return "", crypto.ErrIntegrity
	}
	defer crypto.Wipe(pt)
	if !utf8.Valid(pt) {
		return "", fmt.Errorf("%w: unwrapped key is not valid UTF-8", crypto.ErrProtocol)
	}
	return string(pt), nil
}

// Rewrap opens a wrapped key with oldPass and seals it again under newPass
// following template.
func Rewrap(encryptedKey, oldPass, newPass string, r, template Recipe) (WrappedKey, error) {
	text, err := Unwrap(encryptedKey, oldPass, r)
	if err != nil {
		return WrappedKey{}, err
	}
	return Wrap(text, newPass, template)
}

// open derives the wrapping key and builds the AEAD. The derived key is
// wiped before returning.
func open(passphrase string, salt []byte, r Recipe) (cipher.AEAD, error) {
	pass := []byte(passphrase)
	defer crypto.Wipe(pass)

	key, err := kdfs[r.KDF].derive(pass, salt, r)
	if err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	defer crypto.Wipe(key)

	return ciphers[r.Cipher].new(key, r.IVLength)
}
