package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
	"slices"

	"golang.org/x/crypto/chacha20poly1305"
)

const (
	gcmStandardNonce = 12
	gcmMaxNonce      = 64
)

type aeadCipher struct {
	keySizes []int
	checkIV  func(n int) bool
	new      func(key []byte, ivLen int) (cipher.AEAD, error)
}

var ciphers = map[string]aeadCipher{
	CipherAESGCM: {
		keySizes: []int{16, 24, 32},
		checkIV:  func(n int) bool { return n >= gcmStandardNonce && n <= gcmMaxNonce },
		new:      newAESGCM,
	},
	CipherChaCha20Poly1305: {
		keySizes: []int{chacha20poly1305.KeySize},
		checkIV:  func(n int) bool { return n == chacha20poly1305.NonceSize },
		new:      func(key []byte, _ int) (cipher.AEAD, error) { return chacha20poly1305.New(key) },
	},
	CipherXChaCha20Poly1305: {
		keySizes: []int{chacha20poly1305.KeySize},
		checkIV:  func(n int) bool { return n == chacha20poly1305.NonceSizeX },
		new:      func(key []byte, _ int) (cipher.AEAD, error) { return chacha20poly1305.NewX(key) },
	},
}

func (c aeadCipher) check(r Recipe) error {
	if !slices.Contains(c.keySizes, r.KeyLength) {
		return fmt.Errorf("%w: key length %d for %s", ErrRecipeInvalid, r.KeyLength, r.Cipher)
	}
	if !c.checkIV(r.IVLength) {
		return fmt.Errorf("%w: iv length %d for %s", ErrRecipeInvalid, r.IVLength, r.Cipher)
	}
	return nil
}

func newAESGCM(key []byte, ivLen int) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	if ivLen == gcmStandardNonce {
		return cipher.NewGCM(block)
	}
	return cipher.NewGCMWithNonceSize(block, ivLen)
}
