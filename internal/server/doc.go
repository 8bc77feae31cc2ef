// Package server implements the pigeon relay: a JSON API over HTTP plus a
// WebSocket push channel per conversation.
//
// The relay only ever handles ciphertext. It authenticates accounts (argon2id
// password hashes, EdDSA-signed JWTs), stores public keys, wrapped private
// keys, conversations and opaque message contents through a storage.Store,
// and pushes new messages to subscribers. It never decrypts anything.
//
// Every request passes through panic recovery, an access log line, and a
// per-IP token bucket; sign-up and sign-in have a stricter bucket of their
// own.
package server
