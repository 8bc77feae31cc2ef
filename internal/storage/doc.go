// Package storage persists the relay server's records: accounts, public
// keys, wrapped private keys, conversations and ciphertext messages.
//
// Two backends implement Store: Badger, an embedded key-value store used by
// default and in tests (in memory), and MongoDB for shared deployments.
// Neither backend ever sees plaintext; message contents are stored as the
// opaque strings clients send.
package storage
