package crypto

import (
	"encoding/base64"
	"fmt"
)

// ToText encodes b as standard base64 with padding.
func ToText(b []byte) string { return base64.StdEncoding.EncodeToString(b) }

// FromText decodes standard base64 produced by ToText.
func FromText(s string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecoding, err)
	}
	return b, nil
}
