package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"

	"pigeon/internal/crypto"
	"pigeon/internal/domain"
	"pigeon/internal/relay"
	"pigeon/internal/storage"
	"pigeon/internal/vault"
)

var cheapArgon = argonParams{Memory: 1024, Time: 1, Parallelism: 1, SaltLen: 16, KeyLen: 32}

type harness struct {
	t   *testing.T
	srv *Server
	ts  *httptest.Server
	log *test.Hook
}

func newHarness(t *testing.T, cfg Config) *harness {
	t.Helper()
	st, err := storage.OpenBadger(storage.BadgerConfig{InMemory: true})
	require.NoError(t, err)

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	srv, err := New(cfg, st, logger)
	require.NoError(t, err)
	srv.hashing = cheapArgon

	ts := httptest.NewServer(srv)
	t.Cleanup(func() {
		ts.Close()
		srv.Close()
		_ = st.Close()
	})
	return &harness{t: t, srv: srv, ts: ts, log: hook}
}

// call sends a JSON request and decodes a JSON response into out when the
// status is 2xx.
func (h *harness) call(method, path, token string, in, out any) int {
	h.t.Helper()
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		require.NoError(h.t, err)
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, h.ts.URL+path, body)
	require.NoError(h.t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := h.ts.Client().Do(req)
	require.NoError(h.t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode/100 == 2 && resp.StatusCode != http.StatusNoContent {
		require.NoError(h.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (h *harness) signUp(email string) domain.AuthSession {
	h.t.Helper()
	var sess domain.AuthSession
	code := h.call(http.MethodPost, "/auth/signup", "", relay.Credentials{Email: domain.Email(email), Password: "correct horse"}, &sess)
	require.Equal(h.t, http.StatusCreated, code)
	return sess
}

func TestHealth(t *testing.T) {
	h := newHarness(t, Config{})
	resp, err := http.Get(h.ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(b))
	assert.Eventually(t, func() bool { return len(h.log.AllEntries()) > 0 }, time.Second, 10*time.Millisecond)
}

func TestAuth(t *testing.T) {
	h := newHarness(t, Config{})

	sess := h.signUp("  Alice@Example.com ")
	assert.NotEmpty(t, sess.AccessToken)
	assert.Equal(t, domain.Email("alice@example.com"), sess.Email)
	assert.True(t, sess.ExpiresAt.After(time.Now()))

	t.Run("duplicate email", func(t *testing.T) {
		code := h.call(http.MethodPost, "/auth/signup", "", relay.Credentials{Email: "alice@example.com", Password: "another one"}, nil)
		assert.Equal(t, http.StatusConflict, code)
	})

	t.Run("validation", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest,
			h.call(http.MethodPost, "/auth/signup", "", relay.Credentials{Email: "nope", Password: "long enough"}, nil))
		assert.Equal(t, http.StatusBadRequest,
			h.call(http.MethodPost, "/auth/signup", "", relay.Credentials{Email: "b@example.com", Password: "short"}, nil))
	})

	t.Run("sign in", func(t *testing.T) {
		var in domain.AuthSession
		code := h.call(http.MethodPost, "/auth/signin", "", relay.Credentials{Email: "alice@example.com", Password: "correct horse"}, &in)
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, sess.UserID, in.UserID)

		assert.Equal(t, http.StatusUnauthorized,
			h.call(http.MethodPost, "/auth/signin", "", relay.Credentials{Email: "alice@example.com", Password: "wrong horse"}, nil))
		assert.Equal(t, http.StatusUnauthorized,
			h.call(http.MethodPost, "/auth/signin", "", relay.Credentials{Email: "ghost@example.com", Password: "correct horse"}, nil))
	})

	t.Run("current user", func(t *testing.T) {
		var u domain.User
		require.Equal(t, http.StatusOK, h.call(http.MethodGet, "/auth/user", sess.AccessToken, nil, &u))
		assert.Equal(t, sess.UserID, u.ID)
		assert.Equal(t, sess.Email, u.Email)

		assert.Equal(t, http.StatusUnauthorized, h.call(http.MethodGet, "/auth/user", "", nil, nil))
		assert.Equal(t, http.StatusUnauthorized, h.call(http.MethodGet, "/auth/user", "garbage", nil, nil))
	})

	t.Run("sign out revokes the token", func(t *testing.T) {
		var again domain.AuthSession
		require.Equal(t, http.StatusOK,
			h.call(http.MethodPost, "/auth/signin", "", relay.Credentials{Email: "alice@example.com", Password: "correct horse"}, &again))
		assert.Equal(t, http.StatusNoContent, h.call(http.MethodPost, "/auth/signout", again.AccessToken, nil, nil))
		assert.Equal(t, http.StatusUnauthorized, h.call(http.MethodGet, "/auth/user", again.AccessToken, nil, nil))
		// other sessions are untouched
		assert.Equal(t, http.StatusOK, h.call(http.MethodGet, "/auth/user", sess.AccessToken, nil, nil))
	})
}

func TestUsers(t *testing.T) {
	h := newHarness(t, Config{})
	alice := h.signUp("alice@example.com")
	bob := h.signUp("bob@example.com")

	var u domain.User
	require.Equal(t, http.StatusOK, h.call(http.MethodGet, "/users?email=BOB@example.com", alice.AccessToken, nil, &u))
	assert.Equal(t, bob.UserID, u.ID)
	assert.Empty(t, u.Email)

	u = domain.User{}
	require.Equal(t, http.StatusOK, h.call(http.MethodGet, "/users/"+bob.UserID.String(), alice.AccessToken, nil, &u))
	assert.Equal(t, domain.Email("bob@example.com"), u.Email)

	assert.Equal(t, http.StatusNotFound, h.call(http.MethodGet, "/users?email=carol@example.com", alice.AccessToken, nil, nil))
	assert.Equal(t, http.StatusNotFound, h.call(http.MethodGet, "/users/missing", alice.AccessToken, nil, nil))
	assert.Equal(t, http.StatusBadRequest, h.call(http.MethodGet, "/users", alice.AccessToken, nil, nil))
}

func TestKeys(t *testing.T) {
	h := newHarness(t, Config{})
	alice := h.signUp("alice@example.com")
	bob := h.signUp("bob@example.com")

	pair, err := crypto.GenerateKeyPair()
	require.NoError(t, err)

	t.Run("public", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, h.call(http.MethodGet, "/public-keys/"+alice.UserID.String(), bob.AccessToken, nil, nil))

		require.Equal(t, http.StatusOK, h.call(http.MethodPut, "/public-keys", alice.AccessToken, relay.PublicKeyBody{Key: pair.Public}, nil))
		var rec domain.PublicKeyRecord
		require.Equal(t, http.StatusOK, h.call(http.MethodGet, "/public-keys/"+alice.UserID.String(), bob.AccessToken, nil, &rec))
		assert.Equal(t, alice.UserID, rec.UserID)
		assert.Equal(t, pair.Public, rec.Key)

		assert.Equal(t, http.StatusBadRequest, h.call(http.MethodPut, "/public-keys", alice.AccessToken, relay.PublicKeyBody{Key: "junk"}, nil))
		assert.Equal(t, http.StatusBadRequest, h.call(http.MethodPut, "/public-keys", alice.AccessToken, relay.PublicKeyBody{Key: pair.Private}, nil))
	})

	t.Run("private", func(t *testing.T) {
		recipe := vault.DefaultRecipe()
		recipe.Salt = crypto.ToText(make([]byte, 16))
		recipe.IV = crypto.ToText(make([]byte, 12))
		rec := domain.PrivateKeyRecord{UserID: "spoofed", EncodedKey: "d3JhcHBlZA==", Recipe: recipe}
		require.Equal(t, http.StatusNoContent, h.call(http.MethodPut, "/private-keys", alice.AccessToken, rec, nil))

		var got domain.PrivateKeyRecord
		require.Equal(t, http.StatusOK, h.call(http.MethodGet, "/private-keys/"+alice.UserID.String(), alice.AccessToken, nil, &got))
		assert.Equal(t, alice.UserID, got.UserID)
		assert.Equal(t, rec.EncodedKey, got.EncodedKey)
		assert.Equal(t, recipe, got.Recipe)

		assert.Equal(t, http.StatusForbidden, h.call(http.MethodGet, "/private-keys/"+alice.UserID.String(), bob.AccessToken, nil, nil))
		assert.Equal(t, http.StatusNotFound, h.call(http.MethodGet, "/private-keys/"+bob.UserID.String(), bob.AccessToken, nil, nil))

		incomplete := rec
		incomplete.Recipe = recipe.Template()
		assert.Equal(t, http.StatusBadRequest, h.call(http.MethodPut, "/private-keys", alice.AccessToken, incomplete, nil))
	})
}

func TestConversationsAndMessages(t *testing.T) {
	h := newHarness(t, Config{MaxMessageBytes: 64})
	alice := h.signUp("alice@example.com")
	bob := h.signUp("bob@example.com")
	carol := h.signUp("carol@example.com")

	var conv domain.ConversationEntry
	require.Equal(t, http.StatusCreated,
		h.call(http.MethodPost, "/conversations", alice.AccessToken, relay.NewConversation{UserTwo: bob.UserID}, &conv))
	assert.NotEmpty(t, conv.ID)
	assert.Equal(t, alice.UserID, conv.UserOne)
	assert.Equal(t, bob.UserID, conv.UserTwo)

	t.Run("create is idempotent per pair", func(t *testing.T) {
		var again domain.ConversationEntry
		require.Equal(t, http.StatusOK,
			h.call(http.MethodPost, "/conversations", bob.AccessToken, relay.NewConversation{UserTwo: alice.UserID}, &again))
		assert.Equal(t, conv.ID, again.ID)
	})

	t.Run("create validation", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest,
			h.call(http.MethodPost, "/conversations", alice.AccessToken, relay.NewConversation{UserTwo: alice.UserID}, nil))
		assert.Equal(t, http.StatusNotFound,
			h.call(http.MethodPost, "/conversations", alice.AccessToken, relay.NewConversation{UserTwo: "ghost"}, nil))
	})

	t.Run("lookup", func(t *testing.T) {
		var with domain.ConversationEntry
		require.Equal(t, http.StatusOK, h.call(http.MethodGet, "/conversations/with/"+alice.UserID.String(), bob.AccessToken, nil, &with))
		assert.Equal(t, conv.ID, with.ID)
		assert.Equal(t, http.StatusNotFound, h.call(http.MethodGet, "/conversations/with/"+carol.UserID.String(), bob.AccessToken, nil, nil))

		var list []domain.ConversationEntry
		require.Equal(t, http.StatusOK, h.call(http.MethodGet, "/conversations", bob.AccessToken, nil, &list))
		require.Len(t, list, 1)
		assert.Equal(t, conv.ID, list[0].ID)

		list = nil
		require.Equal(t, http.StatusOK, h.call(http.MethodGet, "/conversations", carol.AccessToken, nil, &list))
		assert.Empty(t, list)
	})

	path := "/conversations/" + conv.ID.String() + "/messages"

	t.Run("messages", func(t *testing.T) {
		var m domain.MessageEntry
		require.Equal(t, http.StatusCreated, h.call(http.MethodPost, path, alice.AccessToken, relay.NewMessage{Contents: `{"msg":"a","iv":"b"}`}, &m))
		assert.Equal(t, alice.UserID, m.Sender)
		assert.Equal(t, conv.ID, m.ConversationID)
		require.Equal(t, http.StatusCreated, h.call(http.MethodPost, path, bob.AccessToken, relay.NewMessage{Contents: `{"msg":"c","iv":"d"}`}, nil))

		var list []domain.MessageEntry
		require.Equal(t, http.StatusOK, h.call(http.MethodGet, path, bob.AccessToken, nil, &list))
		require.Len(t, list, 2)
		assert.Equal(t, m.ID, list[0].ID)
		assert.Equal(t, `{"msg":"a","iv":"b"}`, list[0].Contents)
		assert.Equal(t, bob.UserID, list[1].Sender)
	})

	t.Run("message rules", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, h.call(http.MethodGet, path, carol.AccessToken, nil, nil))
		assert.Equal(t, http.StatusForbidden, h.call(http.MethodPost, path, carol.AccessToken, relay.NewMessage{Contents: "x"}, nil))
		assert.Equal(t, http.StatusNotFound, h.call(http.MethodGet, "/conversations/nope/messages", alice.AccessToken, nil, nil))
		assert.Equal(t, http.StatusBadRequest, h.call(http.MethodPost, path, alice.AccessToken, relay.NewMessage{}, nil))
		assert.Equal(t, http.StatusRequestEntityTooLarge,
			h.call(http.MethodPost, path, alice.AccessToken, relay.NewMessage{Contents: strings.Repeat("x", 65)}, nil))
	})
}

func TestSubscribe(t *testing.T) {
	h := newHarness(t, Config{})
	alice := h.signUp("alice@example.com")
	bob := h.signUp("bob@example.com")
	carol := h.signUp("carol@example.com")

	var conv domain.ConversationEntry
	require.Equal(t, http.StatusCreated,
		h.call(http.MethodPost, "/conversations", alice.AccessToken, relay.NewConversation{UserTwo: bob.UserID}, &conv))

	wsURL := "ws" + strings.TrimPrefix(h.ts.URL, "http") + "/conversations/" + conv.ID.String() + "/subscribe"

	dial := func(token string) (*websocket.Conn, error) {
		cfg, err := websocket.NewConfig(wsURL, h.ts.URL)
		require.NoError(t, err)
		cfg.Header.Set("Authorization", "Bearer "+token)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return cfg.DialContext(ctx)
	}

	_, err := dial(carol.AccessToken)
	assert.Error(t, err, "non-participants are refused")

	conn, err := dial(bob.AccessToken)
	require.NoError(t, err)
	defer conn.Close()

	// Registered before the upgrade reply: one post right after the dial
	// must arrive.
	path := "/conversations/" + conv.ID.String() + "/messages"
	require.Equal(t, http.StatusCreated, h.call(http.MethodPost, path, alice.AccessToken, relay.NewMessage{Contents: "ciphertext"}, nil))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var m domain.MessageEntry
	require.NoError(t, websocket.JSON.Receive(conn, &m))
	assert.Equal(t, alice.UserID, m.Sender)
	assert.Equal(t, "ciphertext", m.Contents)
}

func TestHub_StopClosesSubscribers(t *testing.T) {
	logger, _ := test.NewNullLogger()
	hb := newHub(logger)
	hb.start()

	sub, ok := hb.subscribe("c1")
	require.True(t, ok)
	hb.stop()

	_, open := <-sub.send
	assert.False(t, open)

	_, ok = hb.subscribe("c1")
	assert.False(t, ok)
}

func TestHub_PublishRoutesByConversation(t *testing.T) {
	logger, _ := test.NewNullLogger()
	hb := newHub(logger)
	hb.start()
	defer hb.stop()

	a, _ := hb.subscribe("a")
	b, _ := hb.subscribe("b")

	hb.publish(domain.MessageEntry{ID: "m1", ConversationID: "a"})

	select {
	case m := <-a.send:
		assert.Equal(t, domain.MessageID("m1"), m.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber a got nothing")
	}
	select {
	case m := <-b.send:
		t.Fatalf("subscriber b got %v", m)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestRateLimit(t *testing.T) {
	h := newHarness(t, Config{RateLimit: RateLimitConfig{AuthPerMinute: 1, AuthBurst: 2}})
	creds := relay.Credentials{Email: "nobody@example.com", Password: "whatever!"}

	assert.Equal(t, http.StatusUnauthorized, h.call(http.MethodPost, "/auth/signin", "", creds, nil))
	assert.Equal(t, http.StatusUnauthorized, h.call(http.MethodPost, "/auth/signin", "", creds, nil))
	assert.Equal(t, http.StatusTooManyRequests, h.call(http.MethodPost, "/auth/signin", "", creds, nil))
}

func TestMultiLimiter(t *testing.T) {
	l := newMultiLimiter(perMinute(60), 1, time.Hour)
	assert.True(t, l.allow("1.1.1.1"))
	assert.False(t, l.allow("1.1.1.1"))
	assert.True(t, l.allow("2.2.2.2"), "buckets are per key")
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "203.0.113.9:1234"
	r.Header.Set("X-Forwarded-For", "10.0.0.7")

	var none trustedProxies
	assert.Equal(t, "203.0.113.9", none.clientIP(r), "header ignored without trusted proxies")

	other, err := parseTrustedProxies([]string{"192.0.2.0/24"})
	require.NoError(t, err)
	assert.Equal(t, "203.0.113.9", other.clientIP(r), "header ignored from an untrusted peer")

	r.RemoteAddr = "192.0.2.1:443"
	r.Header.Set("X-Forwarded-For", "198.51.100.4, 10.0.0.7, 192.0.2.8")
	assert.Equal(t, "10.0.0.7", other.clientIP(r), "rightmost untrusted hop wins")

	r.Header.Set("X-Forwarded-For", "garbage")
	assert.Equal(t, "192.0.2.1", other.clientIP(r))

	_, err = parseTrustedProxies([]string{"not-an-ip"})
	assert.Error(t, err)
}

func TestRateLimit_ForwardedForRotation(t *testing.T) {
	h := newHarness(t, Config{RateLimit: RateLimitConfig{AuthPerMinute: 1, AuthBurst: 1}})
	body := `{"email":"nobody@example.com","password":"whatever!"}`

	allowed := 0
	for i := 0; i < 20; i++ {
		r := httptest.NewRequest(http.MethodPost, "/auth/signin", strings.NewReader(body))
		r.RemoteAddr = "203.0.113.9:5555"
		r.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i))
		w := httptest.NewRecorder()
		h.srv.ServeHTTP(w, r)
		if w.Code != http.StatusTooManyRequests {
			allowed++
		}
	}
	assert.Equal(t, 1, allowed)
}

func TestRateLimit_TrustedProxy(t *testing.T) {
	h := newHarness(t, Config{
		TrustedProxies: []string{"192.0.2.1"},
		RateLimit:      RateLimitConfig{AuthPerMinute: 1, AuthBurst: 1},
	})
	body := `{"email":"nobody@example.com","password":"whatever!"}`

	signIn := func(client string) int {
		r := httptest.NewRequest(http.MethodPost, "/auth/signin", strings.NewReader(body))
		r.RemoteAddr = "192.0.2.1:5555"
		r.Header.Set("X-Forwarded-For", client)
		w := httptest.NewRecorder()
		h.srv.ServeHTTP(w, r)
		return w.Code
	}
	assert.Equal(t, http.StatusUnauthorized, signIn("198.51.100.1"))
	assert.Equal(t, http.StatusTooManyRequests, signIn("198.51.100.1"))
	assert.Equal(t, http.StatusUnauthorized, signIn("198.51.100.2"), "clients behind the proxy are keyed apart")
}

func TestPassword(t *testing.T) {
	enc, err := hashPassword(cheapArgon, "hunter22")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(enc, "argon2id$m=1024,t=1,p=1$"))

	ok, err := verifyPassword("hunter22", enc)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = verifyPassword("hunter23", enc)
	require.NoError(t, err)
	assert.False(t, ok)

	other, err := hashPassword(cheapArgon, "hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, enc, other, "salted")

	for _, bad := range []string{"", "bcrypt$x", "argon2id$m=1,t=1$a$b", "argon2id$m=1,t=1,p=1$!!$b"} {
		_, err := verifyPassword("x", bad)
		assert.ErrorIs(t, err, errInvalidHash, bad)
	}
}

func TestTokenSigner(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s, err := newTokenSigner("", "pigeon-relay", time.Hour)
	require.NoError(t, err)
	s.now = func() time.Time { return now }

	sess, err := s.issue("u1", "u1@example.com")
	require.NoError(t, err)
	assert.True(t, now.Add(time.Hour).Equal(sess.ExpiresAt))

	c, err := s.parse(sess.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, domain.UserID("u1"), c.userID())
	assert.Equal(t, domain.Email("u1@example.com"), c.Email)

	t.Run("expired", func(t *testing.T) {
		s.now = func() time.Time { return now.Add(2 * time.Hour) }
		defer func() { s.now = func() time.Time { return now } }()
		_, err := s.parse(sess.AccessToken)
		assert.ErrorIs(t, err, errInvalidToken)
	})

	t.Run("other key", func(t *testing.T) {
		other, err := newTokenSigner("", "pigeon-relay", time.Hour)
		require.NoError(t, err)
		_, err = other.parse(sess.AccessToken)
		assert.ErrorIs(t, err, errInvalidToken)
	})

	t.Run("other issuer", func(t *testing.T) {
		seeded := func(iss string) *tokenSigner {
			s, err := newTokenSigner(crypto.ToText(bytes.Repeat([]byte{7}, 32)), iss, time.Hour)
			require.NoError(t, err)
			return s
		}
		tok, err := seeded("a").issue("u1", "")
		require.NoError(t, err)
		_, err = seeded("b").parse(tok.AccessToken)
		assert.ErrorIs(t, err, errInvalidToken)
		_, err = seeded("a").parse(tok.AccessToken)
		assert.NoError(t, err, "same seed verifies across instances")
	})

	t.Run("bad seed", func(t *testing.T) {
		_, err := newTokenSigner("c2hvcnQ=", "x", time.Hour)
		assert.Error(t, err)
	})

	t.Run("revoke", func(t *testing.T) {
		s.revoke(c)
		_, err := s.parse(sess.AccessToken)
		assert.ErrorIs(t, err, errInvalidToken)
	})
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadConfig(dir + "/missing.yaml")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "badger", cfg.Storage.Driver)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)

	path := dir + "/relay.yaml"
	require.NoError(t, writeTestFile(path, "addr: 127.0.0.1:9000\nstorage:\n  driver: mongo\n  mongo_uri: mongodb://localhost\ntoken_ttl: 1h\n"))
	cfg, err = LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
	assert.Equal(t, "mongo", cfg.Storage.Driver)
	assert.Equal(t, "pigeon", cfg.Storage.MongoDB)
	assert.Equal(t, time.Hour, cfg.TokenTTL)

	require.NoError(t, writeTestFile(path, "adress: typo\n"))
	_, err = LoadConfig(path)
	assert.Error(t, err, "unknown keys are rejected")
}
