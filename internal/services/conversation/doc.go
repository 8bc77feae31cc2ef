// Package conversation resolves peers and keeps the local contact list in
// step with the relay.
package conversation
