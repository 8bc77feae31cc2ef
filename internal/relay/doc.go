// Package relay provides the HTTP implementation of domain.RelayClient
// used by pigeon, plus the request bodies the relay server decodes.
//
// The relay is untrusted: it stores accounts, public keys, wrapped private
// keys, conversations and ciphertext. This package only moves those records
// around.
//
// Supported operations include:
//   - Signing up, in and out, with a bearer token kept on the client.
//   - Resolving users by email and id.
//   - Publishing and fetching public keys and wrapped private keys.
//   - Listing and creating conversations.
//   - Posting and fetching messages, and subscribing to new ones over a
//     WebSocket.
//
// All requests are JSON over HTTP and accept a context for cancellation and
// deadlines. Non-2xx statuses are returned as *StatusError, which matches
// the domain sentinels through errors.Is. Lookups that find nothing report
// ok=false instead of an error.
package relay
