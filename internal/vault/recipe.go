package vault

import (
	"fmt"
	"math/bits"
)

// RecipeVersion is the only recipe layout understood today.
const RecipeVersion = 1

// Algorithm identifiers as they appear in stored recipes.
const (
	KDFPBKDF2   = "PBKDF2"
	KDFArgon2id = "Argon2id"
	KDFScrypt   = "scrypt"

	HashSHA256 = "SHA-256"
	HashSHA384 = "SHA-384"
	HashSHA512 = "SHA-512"

	CipherAESGCM            = "AES-GCM"
	CipherChaCha20Poly1305  = "ChaCha20-Poly1305"
	CipherXChaCha20Poly1305 = "XChaCha20-Poly1305"
)

// Bounds applied to recipes read back from storage.
const (
	maxPBKDF2Iterations = 10_000_000
	maxArgon2Time       = 64
	maxArgon2MemoryKiB  = 1 << 20
	maxScryptN          = 1 << 20
	maxParallelism      = 16
	minSaltLength       = 8
	maxSaltLength       = 64
)

// Recipe describes how a private key was wrapped. A template has no Salt
// or IV; Wrap returns a completed recipe carrying both as base64.
type Recipe struct {
	Version     int    `json:"version" yaml:"version"`
	KDF         string `json:"kdf" yaml:"kdf"`
	Hash        string `json:"hash" yaml:"hash"`
	Iterations  int    `json:"iterations" yaml:"iterations"`
	KeyLength   int    `json:"keyLength" yaml:"keyLength"`
	Cipher      string `json:"cipher" yaml:"cipher"`
	IVLength    int    `json:"ivLength" yaml:"ivLength"`
	SaltLength  int    `json:"saltLength" yaml:"saltLength"`
	Memory      uint32 `json:"memory,omitempty" yaml:"memory,omitempty"`
	Parallelism uint8  `json:"parallelism,omitempty" yaml:"parallelism,omitempty"`
	Salt        string `json:"salt,omitempty" yaml:"-"`
	IV          string `json:"iv,omitempty" yaml:"-"`
}

// DefaultRecipe is PBKDF2-SHA-256 with 250000 iterations into AES-256-GCM.
func DefaultRecipe() Recipe {
	return Recipe{
		Version:    RecipeVersion,
		KDF:        KDFPBKDF2,
		Hash:       HashSHA256,
		Iterations: 250_000,
		KeyLength:  32,
		Cipher:     CipherAESGCM,
		IVLength:   12,
		SaltLength: 16,
	}
}

// Template returns r without salt and iv.
func (r Recipe) Template() Recipe {
	r.Salt, r.IV = "", ""
	return r
}

// Complete reports whether r carries both salt and iv.
func (r Recipe) Complete() bool { return r.Salt != "" && r.IV != "" }

// Validate checks the version, algorithm ids and parameters of r. Salt and
// iv are not inspected.
func (r Recipe) Validate() error {
	if r.Version != RecipeVersion {
		return fmt.Errorf("%w: %d", ErrRecipeVersion, r.Version)
	}
	k, ok := kdfs[r.KDF]
	if !ok {
		return fmt.Errorf("%w: unknown kdf %q", ErrRecipeInvalid, r.KDF)
	}
	if err := k.check(r); err != nil {
		return err
	}
	c, ok := ciphers[r.Cipher]
	if !ok {
		return fmt.Errorf("%w: unknown cipher %q", ErrRecipeInvalid, r.Cipher)
	}
	if err := c.check(r); err != nil {
		return err
	}
	if r.SaltLength < minSaltLength || r.SaltLength > maxSaltLength {
		return fmt.Errorf("%w: salt length %d", ErrRecipeInvalid, r.SaltLength)
	}
	return nil
}

func isPowerOfTwo(n int) bool { return n > 1 && bits.OnesCount(uint(n)) == 1 }
