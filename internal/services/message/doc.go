// Package message sends and reads end-to-end encrypted messages.
//
// Each conversation uses one shared secret from the session Keyring. Send
// seals the text and posts the sealed JSON as the message contents. History
// and Watch open what the relay returns; a message that fails to open is
// reported as Failed with placeholder text, and the rest still arrive.
package message
