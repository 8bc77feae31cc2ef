package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const fingerprintBytes = 16

// Fingerprint returns a display fingerprint of a raw public key: the first
// 16 bytes of its SHA-256, hex encoded in space-separated groups of four.
func Fingerprint(pub []byte) string {
	sum := sha256.Sum256(pub)
	h := hex.EncodeToString(sum[:fingerprintBytes])
	groups := make([]string, 0, len(h)/4)
	for i := 0; i < len(h); i += 4 {
		groups = append(groups, h[i:i+4])
	}
	return strings.Join(groups, " ")
}
