// Package app wires application dependencies for the CLI.
//
// It reads Config from ~/.pigeon/config.yaml with a .env overlay, builds
// the relay client, file stores, keyring and services, and exposes them via
// Wire. App adds the account flows (sign up, sign in, sign out) that tie the
// relay session to the account store.
package app
