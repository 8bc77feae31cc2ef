// Package session holds the unlocked key material for the lifetime of a
// signed-in session.
//
// The Keyring keeps the decoded private key and one shared secret per
// conversation so each is derived at most once. Clear destroys all of it on
// sign-out or lock.
package session
