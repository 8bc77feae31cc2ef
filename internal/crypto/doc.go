// Package crypto holds the end-to-end primitives used by pigeon.
//
// Contents
//
//   - Base64 text helpers (ToText, FromText)
//   - X25519 key pairs and their portable JWK encoding (GenerateKeyPair,
//     DecodeKey, DecodePublicKey, DecodePrivateKey)
//   - Per-conversation shared secrets (DeriveSharedSecret, SharedSecret.Destroy)
//   - AES-256-GCM message sealing and the stored contents format (Encrypt,
//     Decrypt, EncodeContents, DecodeContents)
//   - Short public-key fingerprints for display (Fingerprint)
//   - Best-effort memory wiping for sensitive byte slices (Wipe)
//
// # Notes
//
// Every function is synchronous and keeps no shared state, so all of them
// are safe to call from many goroutines. Randomness is drawn per call.
// Errors are sentinels matched with errors.Is; ErrIntegrity
// carries no detail about the cause of an authentication failure.
package crypto
