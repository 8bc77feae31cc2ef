package identity_test

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pigeon/internal/crypto"
	"pigeon/internal/domain"
	"pigeon/internal/relay"
	"pigeon/internal/server/servertest"
	"pigeon/internal/services/identity"
	"pigeon/internal/services/session"
	"pigeon/internal/vault"
)

const pass = "Correct-Horse-42"

func fastRecipe() vault.Recipe {
	r := vault.DefaultRecipe()
	r.Iterations = 1000
	return r
}

type fixture struct {
	relay *relay.HTTP
	keys  *session.Keyring
	svc   *identity.Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	c := relay.NewHTTP(servertest.Start(t))
	_, err := c.SignUp(context.Background(), "alice@example.com", "alice-password")
	require.NoError(t, err)
	logger, _ := test.NewNullLogger()
	keys := session.NewKeyring()
	return fixture{relay: c, keys: keys, svc: identity.New(c, keys, fastRecipe(), logger)}
}

// scripted answers prompts from a fixed list.
type scripted struct {
	fresh    []string
	existing []string
	asked    []int
}

func (p *scripted) NewPassphrase(context.Context) (string, error) {
	if len(p.fresh) == 0 {
		return "", errors.New("no input")
	}
	s := p.fresh[0]
	p.fresh = p.fresh[1:]
	return s, nil
}

func (p *scripted) Passphrase(_ context.Context, attempt int) (string, error) {
	p.asked = append(p.asked, attempt)
	if len(p.existing) == 0 {
		return "", errors.New("no input")
	}
	s := p.existing[0]
	p.existing = p.existing[1:]
	return s, nil
}

func TestSetupAndUnlock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	err := f.svc.Unlock(ctx, pass)
	assert.ErrorIs(t, err, identity.ErrNoKeyMaterial)

	fp, err := f.svc.Setup(ctx, pass)
	require.NoError(t, err)
	assert.Len(t, fp.String(), 39)
	assert.True(t, f.keys.Unlocked())

	_, err = f.svc.Setup(ctx, pass)
	assert.ErrorIs(t, err, identity.ErrKeyMaterialExists, "setup must not replace keys")

	me, err := f.relay.CurrentUser(ctx)
	require.NoError(t, err)
	pubText, ok, err := f.relay.PublicKey(ctx, me.ID)
	require.NoError(t, err)
	require.True(t, ok)
	pub, err := crypto.DecodePublicKey(pubText)
	require.NoError(t, err)
	assert.Equal(t, fp.String(), pub.Fingerprint())

	rec, ok, err := f.relay.PrivateKey(ctx, me.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, rec.Recipe.Complete())
	assert.Equal(t, 1000, rec.Recipe.Iterations)

	f.svc.Lock()
	assert.False(t, f.keys.Unlocked())

	got, err := f.svc.Fingerprint(ctx)
	require.NoError(t, err)
	assert.Equal(t, fp, got, "fingerprint works while locked")

	assert.ErrorIs(t, f.svc.Unlock(ctx, "Wrong-Horse-42"), crypto.ErrIntegrity)
	assert.False(t, f.keys.Unlocked())

	require.NoError(t, f.svc.Unlock(ctx, pass))
	priv, ok := f.keys.PrivateKey()
	require.True(t, ok)
	assert.True(t, priv.Public().Equal(pub))
}

func TestSetup_WeakPassphrase(t *testing.T) {
	f := newFixture(t)
	for _, weak := range []string{"short1!A", "alllowercase-123", "ALLUPPER-12345", "NoDigitsHere!!", "NoSymbols12345"} {
		_, err := f.svc.Setup(context.Background(), weak)
		assert.ErrorIs(t, err, identity.ErrWeakPassphrase, weak)
	}
	assert.False(t, f.keys.Unlocked())
}

func TestEnsureUnlocked_NewUser(t *testing.T) {
	f := newFixture(t)
	p := &scripted{fresh: []string{pass}}
	require.NoError(t, f.svc.EnsureUnlocked(context.Background(), p, 3))
	assert.True(t, f.keys.Unlocked())
	assert.Empty(t, p.asked)
}

func TestEnsureUnlocked_RetriesWrongPassphrase(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.svc.Setup(ctx, pass)
	require.NoError(t, err)
	f.svc.Lock()

	p := &scripted{existing: []string{"nope", "still-nope", pass}}
	require.NoError(t, f.svc.EnsureUnlocked(ctx, p, 3))
	assert.Equal(t, []int{1, 2, 3}, p.asked)
	assert.True(t, f.keys.Unlocked())

	// Already unlocked: no prompt at all.
	p2 := &scripted{}
	require.NoError(t, f.svc.EnsureUnlocked(ctx, p2, 3))
	assert.Empty(t, p2.asked)
}

func TestEnsureUnlocked_GivesUp(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.svc.Setup(ctx, pass)
	require.NoError(t, err)
	f.svc.Lock()

	p := &scripted{existing: []string{"a", "b", "c", pass}}
	err = f.svc.EnsureUnlocked(ctx, p, 2)
	assert.ErrorIs(t, err, crypto.ErrIntegrity)
	assert.Equal(t, []int{1, 2}, p.asked)
	assert.False(t, f.keys.Unlocked())
}

func TestEnsureUnlocked_Canceled(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	err := f.svc.EnsureUnlocked(ctx, &scripted{}, 3)
	assert.ErrorIs(t, err, identity.ErrCanceled)

	_, err = f.svc.Setup(ctx, pass)
	require.NoError(t, err)
	f.svc.Lock()
	err = f.svc.EnsureUnlocked(ctx, &scripted{}, 3)
	assert.ErrorIs(t, err, identity.ErrCanceled)
}

func TestChangePassphrase(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	fp, err := f.svc.Setup(ctx, pass)
	require.NoError(t, err)

	const next = "Battery-Staple-7"
	assert.ErrorIs(t, f.svc.ChangePassphrase(ctx, pass, "weak"), identity.ErrWeakPassphrase)
	assert.ErrorIs(t, f.svc.ChangePassphrase(ctx, "Wrong-Horse-42", next), crypto.ErrIntegrity)
	require.NoError(t, f.svc.ChangePassphrase(ctx, pass, next))

	f.svc.Lock()
	assert.ErrorIs(t, f.svc.Unlock(ctx, pass), crypto.ErrIntegrity)
	require.NoError(t, f.svc.Unlock(ctx, next))

	got, err := f.svc.Fingerprint(ctx)
	require.NoError(t, err)
	assert.Equal(t, fp, got, "same key pair after re-wrap")
}

func TestFingerprint_NoKeys(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Fingerprint(context.Background())
	assert.ErrorIs(t, err, identity.ErrNoKeyMaterial)
}

func TestSignedOut(t *testing.T) {
	c := relay.NewHTTP(servertest.Start(t))
	svc := identity.New(c, session.NewKeyring(), vault.Recipe{}, nil)
	_, err := svc.Setup(context.Background(), pass)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
