// Package store provides file-based persistence for pigeon's client state.
//
// It contains concrete implementations of the domain storage interfaces,
// serialising data as JSON on disk with atomic temp-file writes. All methods
// are concurrency-safe via internal locking. Files live under the user's
// configured home directory and are created with mode 0600.
//
// The package includes stores for:
//   - The signed-in account per relay server (AccountFileStore)
//   - Cached contacts and their conversation ids (ContactFileStore)
//
// Key material never reaches these files; the wrapped private key lives on
// the relay.
package store
