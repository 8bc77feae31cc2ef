// Package main runs the pigeon relay server.
//
// The relay stores accounts, public keys, wrapped private keys,
// conversations and ciphertext, and pushes new messages to subscribers over
// WebSockets. It never sees plaintext or unwrapped private keys.
//
// Usage
//
//	relay serve [--config relay.yaml] [--addr :8080]
//	relay genkey
//
// serve reads relay.yaml (see server.Config), overlays PIGEON_RELAY_*
// variables from the environment and a .env file, and listens until
// interrupted. genkey prints a fresh base64 Ed25519 seed for signing_key.
//
// Behaviour
//
//   - Storage is badger on disk by default, badger in memory with
//     in_memory: true, or MongoDB with driver: mongo.
//   - A lightweight access log records method, path, remote, status, bytes and
//     duration for each request.
//   - Without signing_key, tokens are signed with a per-process key and do
//     not survive a restart.
package main
