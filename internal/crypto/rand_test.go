package crypto

import (
	"errors"
	"testing"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy unavailable") }

func withFailingRand(t *testing.T) {
	t.Helper()
	prev := randReader
	randReader = failingReader{}
	t.Cleanup(func() { randReader = prev })
}

func TestGenerateKeyPair_RandomFailure(t *testing.T) {
	withFailingRand(t)
	if _, err := GenerateKeyPair(); err == nil {
		t.Fatal("expected error when randomness is unavailable")
	}
}

func TestEncrypt_RandomFailure(t *testing.T) {
	a, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("GeneratePrivateKey: %v", err)
	}
	b, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("GeneratePrivateKey: %v", err)
	}
	s, err := DeriveSharedSecret(a, b.Public())
	if err != nil {
		t.Fatalf("DeriveSharedSecret: %v", err)
	}

	withFailingRand(t)
	if _, err := Encrypt("hi", s); err == nil {
		t.Fatal("expected error when randomness is unavailable")
	}
}
