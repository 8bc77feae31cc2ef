// Package domain defines the data models and contracts shared by pigeon's
// client, relay client and relay server. The types and interfaces live in
// subpackages and are re-exported here for compact imports.
package domain
