package session_test

import (
	"errors"
	"sync"
	"testing"

	"pigeon/internal/crypto"
	"pigeon/internal/services/session"
)

func mustKey(t *testing.T) *crypto.PrivateKey {
	t.Helper()
	k, err := crypto.GeneratePrivateKey()
	if err != nil {
		t.Fatalf("GeneratePrivateKey: %v", err)
	}
	return k
}

func TestKeyring_Locked(t *testing.T) {
	r := session.NewKeyring()
	if r.Unlocked() {
		t.Fatal("new keyring should be locked")
	}
	if _, err := r.Secret("c1", mustKey(t).Public()); !errors.Is(err, session.ErrLocked) {
		t.Fatalf("Secret on locked keyring: got %v, want ErrLocked", err)
	}
}

func TestKeyring_SecretIsCachedPerConversation(t *testing.T) {
	r := session.NewKeyring()
	r.SetPrivateKey(mustKey(t))
	peer := mustKey(t).Public()

	s1, err := r.Secret("c1", peer)
	if err != nil {
		t.Fatalf("Secret: %v", err)
	}
	s2, err := r.Secret("c1", peer)
	if err != nil {
		t.Fatalf("Secret: %v", err)
	}
	if s1 != s2 {
		t.Fatal("expected the cached secret on second call")
	}

	s3, err := r.Secret("c2", peer)
	if err != nil {
		t.Fatalf("Secret: %v", err)
	}
	if s3 == s1 {
		t.Fatal("each conversation gets its own secret")
	}
}

func TestKeyring_PeerKeyChangeRederives(t *testing.T) {
	r := session.NewKeyring()
	r.SetPrivateKey(mustKey(t))

	old, err := r.Secret("c1", mustKey(t).Public())
	if err != nil {
		t.Fatalf("Secret: %v", err)
	}
	fresh, err := r.Secret("c1", mustKey(t).Public())
	if err != nil {
		t.Fatalf("Secret: %v", err)
	}
	if fresh == old {
		t.Fatal("new peer key should derive a new secret")
	}
	if !old.Destroyed() {
		t.Fatal("replaced secret should be destroyed")
	}
}

func TestKeyring_ForgetAndClear(t *testing.T) {
	r := session.NewKeyring()
	priv := mustKey(t)
	r.SetPrivateKey(priv)
	peer := mustKey(t).Public()

	a, _ := r.Secret("a", peer)
	b, _ := r.Secret("b", peer)

	r.Forget("a")
	if !a.Destroyed() || b.Destroyed() {
		t.Fatal("Forget should only destroy the named conversation")
	}

	r.Clear()
	if !b.Destroyed() {
		t.Fatal("Clear should destroy every secret")
	}
	if r.Unlocked() {
		t.Fatal("Clear should lock the keyring")
	}
	if _, err := crypto.Encrypt("x", b); !errors.Is(err, crypto.ErrSecretDestroyed) {
		t.Fatalf("Encrypt with cleared secret: got %v", err)
	}
}

func TestKeyring_SetPrivateKeyDropsSecrets(t *testing.T) {
	r := session.NewKeyring()
	r.SetPrivateKey(mustKey(t))
	s, _ := r.Secret("c", mustKey(t).Public())

	r.SetPrivateKey(mustKey(t))
	if !s.Destroyed() {
		t.Fatal("switching keys should destroy cached secrets")
	}
}

func TestKeyring_ConcurrentSecret(t *testing.T) {
	r := session.NewKeyring()
	r.SetPrivateKey(mustKey(t))
	peer := mustKey(t).Public()

	var wg sync.WaitGroup
	got := make([]*crypto.SharedSecret, 16)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := r.Secret("c", peer)
			if err != nil {
				t.Errorf("Secret: %v", err)
				return
			}
			got[i] = s
		}(i)
	}
	wg.Wait()
	for _, s := range got[1:] {
		if s != got[0] {
			t.Fatal("concurrent callers should share one secret")
		}
	}
}
