package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pigeon/internal/domain"
)

// ErrSessionExpired means the stored token is past its expiry.
var ErrSessionExpired = errors.New("session expired; sign in again")

// App runs the account flows on top of a Wire.
type App struct {
	*Wire
	now func() time.Time
}

func New(w *Wire) *App { return &App{Wire: w, now: time.Now} }

// SignUp creates an account on the relay and remembers the session.
func (a *App) SignUp(ctx context.Context, email domain.Email, password string) (domain.AuthSession, error) {
	sess, err := a.Relay.SignUp(ctx, email, password)
	if err != nil {
		return domain.AuthSession{}, err
	}
	return sess, a.remember(sess)
}

// SignIn authenticates and remembers the session.
func (a *App) SignIn(ctx context.Context, email domain.Email, password string) (domain.AuthSession, error) {
	sess, err := a.Relay.SignIn(ctx, email, password)
	if err != nil {
		return domain.AuthSession{}, err
	}
	return sess, a.remember(sess)
}

// SignOut revokes the token, wipes the keyring and forgets the account.
// The local account is dropped even if the relay call fails.
func (a *App) SignOut(ctx context.Context) error {
	a.Identity.Lock()
	var relayErr error
	if a.SignedIn {
		relayErr = a.Relay.SignOut(ctx)
	}
	if err := a.Accounts.DeleteAccount(); err != nil {
		return err
	}
	a.Profile, a.SignedIn = domain.AccountProfile{}, false
	if relayErr != nil && !errors.Is(relayErr, domain.ErrUnauthorized) {
		return fmt.Errorf("relay sign-out: %w", relayErr)
	}
	return nil
}

// Session returns the stored session, failing if there is none or it has
// expired.
func (a *App) Session() (domain.AuthSession, error) {
	if !a.SignedIn {
		return domain.AuthSession{}, domain.ErrUnauthorized
	}
	if a.Profile.Session.Expired(a.now()) {
		return domain.AuthSession{}, ErrSessionExpired
	}
	return a.Profile.Session, nil
}

// Unlock makes sure there is a live session and an unlocked keyring.
func (a *App) Unlock(ctx context.Context, prompt domain.PassphrasePrompter) error {
	if _, err := a.Session(); err != nil {
		return err
	}
	return a.Identity.EnsureUnlocked(ctx, prompt, a.Config.MaxUnlockAttempts)
}

func (a *App) remember(sess domain.AuthSession) error {
	p := domain.AccountProfile{ServerURL: a.Config.RelayURL, Session: sess}
	if err := a.Accounts.SaveAccount(p); err != nil {
		return err
	}
	a.Profile, a.SignedIn = p, true
	return nil
}
