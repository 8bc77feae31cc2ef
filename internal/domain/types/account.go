package types

import "time"

// User is the public view of an account.
type User struct {
	ID    UserID `json:"id"`
	Email Email  `json:"email,omitempty"`
}

// AuthSession is what the relay hands back on sign-up and sign-in.
type AuthSession struct {
	AccessToken string    `json:"access_token"`
	UserID      UserID    `json:"user_id"`
	Email       Email     `json:"email"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at now.
func (s AuthSession) Expired(now time.Time) bool {
	return s.ExpiresAt.IsZero() || !now.Before(s.ExpiresAt)
}

// AccountProfile identifies a signed-in account on a specific relay server.
type AccountProfile struct {
	ServerURL string      `json:"server_url"`
	Session   AuthSession `json:"session"`
}
