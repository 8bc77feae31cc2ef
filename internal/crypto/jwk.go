package crypto

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

const (
	jwkKeyType = "OKP"
	jwkCurve   = "X25519"
)

// jwk is the JSON Web Key layout used for the portable key encoding. It is
// the same shape WebCrypto emits for exported X25519 keys.
type jwk struct {
	Kty    string   `json:"kty"`
	Crv    string   `json:"crv"`
	X      string   `json:"x"`
	D      string   `json:"d,omitempty"`
	Ext    bool     `json:"ext"`
	KeyOps []string `json:"key_ops"`
}

func publicJWK(pub [KeySize]byte) jwk {
	return jwk{
		Kty:    jwkKeyType,
		Crv:    jwkCurve,
		X:      base64.RawURLEncoding.EncodeToString(pub[:]),
		Ext:    true,
		KeyOps: []string{},
	}
}

func privateJWK(priv, pub [KeySize]byte) jwk {
	k := publicJWK(pub)
	k.D = base64.RawURLEncoding.EncodeToString(priv[:])
	k.KeyOps = []string{"deriveKey", "deriveBits"}
	return k
}

// encodeJWK renders k as base64(JSON).
func encodeJWK(k jwk) string {
	// Marshal cannot fail for this struct.
	b, _ := json.Marshal(k)
	return ToText(b)
}

// decodeJWK parses a base64(JSON) token and checks the key type and curve.
func decodeJWK(text string) (jwk, error) {
	raw, err := FromText(text)
	if err != nil {
		return jwk{}, fmt.Errorf("%w: %w", ErrKeyFormat, err)
	}
	var k jwk
	if err := json.Unmarshal(raw, &k); err != nil {
		return jwk{}, fmt.Errorf("%w: %v", ErrKeyFormat, err)
	}
	if k.Kty != jwkKeyType || k.Crv != jwkCurve {
		return jwk{}, fmt.Errorf("%w: unsupported key type %q/%q", ErrKeyFormat, k.Kty, k.Crv)
	}
	return k, nil
}

func decodeComponent(name, v string) ([KeySize]byte, error) {
	var out [KeySize]byte
	b, err := base64.RawURLEncoding.DecodeString(v)
	if err != nil {
		return out, fmt.Errorf("%w: field %q: %v", ErrKeyFormat, name, err)
	}
	if len(b) != KeySize {
		return out, fmt.Errorf("%w: field %q: want %d bytes, got %d", ErrKeyFormat, name, KeySize, len(b))
	}
	copy(out[:], b)
	return out, nil
}
