// Package identity manages the user's X25519 key pair.
//
// The private key lives on the relay only in wrapped form: Setup generates
// a pair, wraps the private half under a passphrase with the vault, and
// publishes both records. Unlock fetches and unwraps it into the session
// Keyring. EnsureUnlocked drives the prompt and retry loop a client needs
// on start-up.
package identity
