// Package vault wraps a user's private key under a passphrase so that the
// wrapped form can be stored on an untrusted relay.
//
// A Recipe names every parameter of the wrap: the key-derivation function
// and its cost, the AEAD cipher, and the salt and nonce sizes. Wrap takes a
// template recipe and returns the completed one with fresh salt and iv;
// Unwrap needs the completed recipe back. Recipes are plain JSON and the
// default one matches what browsers produce with WebCrypto (PBKDF2-SHA-256
// into AES-256-GCM), so keys wrapped by either side open on the other.
//
// Cost parameters of a recipe are bounded before any derivation runs.
package vault
