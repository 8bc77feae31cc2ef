package vault

import (
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/scrypt"
)

// scryptR is the fixed scrypt block size.
const scryptR = 8

type kdf struct {
	check  func(Recipe) error
	derive func(passphrase, salt []byte, r Recipe) ([]byte, error)
}

var kdfs = map[string]kdf{
	KDFPBKDF2:   {check: checkPBKDF2, derive: derivePBKDF2},
	KDFArgon2id: {check: checkArgon2id, derive: deriveArgon2id},
	KDFScrypt:   {check: checkScrypt, derive: deriveScrypt},
}

var hashes = map[string]func() hash.Hash{
	HashSHA256: sha256.New,
	HashSHA384: sha512.New384,
	HashSHA512: sha512.New,
}

func checkPBKDF2(r Recipe) error {
	if _, ok := hashes[r.Hash]; !ok {
		return fmt.Errorf("%w: unknown hash %q", ErrRecipeInvalid, r.Hash)
	}
	if r.Iterations < 1 || r.Iterations > maxPBKDF2Iterations {
		return fmt.Errorf("%w: pbkdf2 iterations %d", ErrRecipeInvalid, r.Iterations)
	}
	return nil
}

func derivePBKDF2(passphrase, salt []byte, r Recipe) ([]byte, error) {
	return pbkdf2.Key(passphrase, salt, r.Iterations, r.KeyLength, hashes[r.Hash]), nil
}

func checkArgon2id(r Recipe) error {
	if r.Iterations < 1 || r.Iterations > maxArgon2Time {
		return fmt.Errorf("%w: argon2id time cost %d", ErrRecipeInvalid, r.Iterations)
	}
	if r.Memory < 8*uint32(r.Parallelism) || r.Memory > maxArgon2MemoryKiB {
		return fmt.Errorf("%w: argon2id memory %d KiB", ErrRecipeInvalid, r.Memory)
	}
	if r.Parallelism < 1 || r.Parallelism > maxParallelism {
		return fmt.Errorf("%w: argon2id parallelism %d", ErrRecipeInvalid, r.Parallelism)
	}
	return nil
}

func deriveArgon2id(passphrase, salt []byte, r Recipe) ([]byte, error) {
	return argon2.IDKey(passphrase, salt, uint32(r.Iterations), r.Memory, r.Parallelism, uint32(r.KeyLength)), nil
}

func checkScrypt(r Recipe) error {
	if !isPowerOfTwo(r.Iterations) || r.Iterations > maxScryptN {
		return fmt.Errorf("%w: scrypt N %d", ErrRecipeInvalid, r.Iterations)
	}
	if r.Parallelism < 1 || r.Parallelism > maxParallelism {
		return fmt.Errorf("%w: scrypt parallelism %d", ErrRecipeInvalid, r.Parallelism)
	}
	return nil
}

func deriveScrypt(passphrase, salt []byte, r Recipe) ([]byte, error) {
	return scrypt.Key(passphrase, salt, r.Iterations, scryptR, int(r.Parallelism), r.KeyLength)
}
