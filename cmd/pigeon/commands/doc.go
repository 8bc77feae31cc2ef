// Package commands defines the pigeon CLI and wires dependencies for subcommands.
//
// Commands
//
//   - signup, signin, signout   Manage the relay account
//   - whoami                    Show the signed-in account and key fingerprint
//   - keys init|unlock|passwd   Create, check or re-wrap the key pair
//   - fingerprint [email]       Print your or a contact's key fingerprint
//   - contacts add|list|sync|remove
//   - send, history, watch      Exchange end-to-end encrypted messages
//
// # Implementation
//
// The root command loads the config and builds the dependency graph before
// any subcommand runs. Commands that need the private key prompt for the
// passphrase on the terminal, or read PIGEON_PASSPHRASE when it is set.
package commands
