package relay_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pigeon/internal/crypto"
	"pigeon/internal/domain"
	"pigeon/internal/relay"
	"pigeon/internal/server/servertest"
	"pigeon/internal/vault"
)

func newRelay(t *testing.T) string { return servertest.Start(t) }

func TestHTTP_RoundTrip(t *testing.T) {
	ctx := context.Background()
	base := newRelay(t)

	alice := relay.NewHTTP(base + "/")
	bob := relay.NewHTTP(base)

	aSess, err := alice.SignUp(ctx, "alice@example.com", "alice-password")
	require.NoError(t, err)
	bSess, err := bob.SignUp(ctx, "bob@example.com", "bob-password")
	require.NoError(t, err)

	me, err := alice.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, aSess.UserID, me.ID)

	t.Run("users", func(t *testing.T) {
		id, ok, err := alice.UserIDByEmail(ctx, "bob@example.com")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, bSess.UserID, id)

		email, ok, err := alice.EmailByUserID(ctx, bSess.UserID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, domain.Email("bob@example.com"), email)

		_, ok, err = alice.UserIDByEmail(ctx, "carol@example.com")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("keys", func(t *testing.T) {
		_, ok, err := bob.PublicKey(ctx, aSess.UserID)
		require.NoError(t, err)
		assert.False(t, ok)

		pair, err := crypto.GenerateKeyPair()
		require.NoError(t, err)
		require.NoError(t, alice.StorePublicKey(ctx, pair.Public))

		pub, ok, err := bob.PublicKey(ctx, aSess.UserID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, pair.Public, pub)

		r := vault.DefaultRecipe()
		r.Iterations = 1000
		wrapped, err := vault.Wrap(pair.Private, "pw", r)
		require.NoError(t, err)
		require.NoError(t, alice.StorePrivateKey(ctx, domain.PrivateKeyRecord{EncodedKey: wrapped.EncryptedKey, Recipe: wrapped.Recipe}))

		rec, ok, err := alice.PrivateKey(ctx, aSess.UserID)
		require.NoError(t, err)
		require.True(t, ok)
		plain, err := vault.Unwrap(rec.EncodedKey, "pw", rec.Recipe)
		require.NoError(t, err)
		assert.Equal(t, pair.Private, plain)

		_, _, err = bob.PrivateKey(ctx, aSess.UserID)
		assert.ErrorIs(t, err, domain.ErrForbidden)
		var se *relay.StatusError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, http.StatusForbidden, se.Code)
	})

	t.Run("conversations and messages", func(t *testing.T) {
		_, ok, err := alice.ConversationWith(ctx, bSess.UserID)
		require.NoError(t, err)
		assert.False(t, ok)

		conv, err := alice.CreateConversation(ctx, bSess.UserID)
		require.NoError(t, err)
		again, err := bob.CreateConversation(ctx, aSess.UserID)
		require.NoError(t, err)
		assert.Equal(t, conv.ID, again.ID)

		list, err := bob.Conversations(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)

		sent, err := alice.SendMessage(ctx, conv.ID, `{"msg":"x","iv":"y"}`)
		require.NoError(t, err)
		msgs, err := bob.Messages(ctx, conv.ID)
		require.NoError(t, err)
		require.Len(t, msgs, 1)
		assert.Equal(t, sent.ID, msgs[0].ID)
	})

	t.Run("sign out", func(t *testing.T) {
		require.NoError(t, alice.SignOut(ctx))
		_, err := alice.CurrentUser(ctx)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)

		_, err = alice.SignIn(ctx, "alice@example.com", "nope-nope")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
		_, err = alice.SignIn(ctx, "alice@example.com", "alice-password")
		require.NoError(t, err)
	})
}

func TestHTTP_SignUpConflict(t *testing.T) {
	ctx := context.Background()
	c := relay.NewHTTP(newRelay(t))
	_, err := c.SignUp(ctx, "dup@example.com", "password1")
	require.NoError(t, err)
	_, err = c.SignUp(ctx, "dup@example.com", "password2")
	assert.ErrorIs(t, err, domain.ErrConflict)

	var se *relay.StatusError
	require.True(t, errors.As(err, &se))
	assert.Contains(t, se.Error(), "409")
}

func TestHTTP_Subscribe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	base := newRelay(t)

	alice := relay.NewHTTP(base)
	bob := relay.NewHTTP(base)
	_, err := alice.SignUp(ctx, "alice@example.com", "alice-password")
	require.NoError(t, err)
	bSess, err := bob.SignUp(ctx, "bob@example.com", "bob-password")
	require.NoError(t, err)
	conv, err := alice.CreateConversation(ctx, bSess.UserID)
	require.NoError(t, err)

	var mu sync.Mutex
	var got []domain.MessageEntry
	errCh := make(chan error, 1)
	go func() {
		errCh <- bob.Subscribe(ctx, conv.ID, func(m domain.MessageEntry) {
			mu.Lock()
			got = append(got, m)
			mu.Unlock()
		})
	}()

	received := func() int {
		mu.Lock()
		defer mu.Unlock()
		return len(got)
	}
	// Subscribe gives no signal once connected; post until a push lands.
	require.Eventually(t, func() bool {
		if received() > 0 {
			return true
		}
		_, _ = alice.SendMessage(ctx, conv.ID, "payload")
		return false
	}, 5*time.Second, 100*time.Millisecond)

	cancel()
	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Subscribe did not return after cancel")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "payload", got[0].Contents)
	assert.Equal(t, conv.ID, got[0].ConversationID)
}

func TestHTTP_SubscribeRejected(t *testing.T) {
	ctx := context.Background()
	c := relay.NewHTTP(newRelay(t))
	err := c.Subscribe(ctx, "nope", func(domain.MessageEntry) {})
	assert.Error(t, err)
}

func TestHTTP_BadBase(t *testing.T) {
	c := relay.NewHTTP("ftp://example.com")
	err := c.Subscribe(context.Background(), "c", func(domain.MessageEntry) {})
	assert.Error(t, err)
}
