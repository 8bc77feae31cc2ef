package crypto

import (
	"encoding/json"
	"fmt"
)

// Contents is the JSON stored in a message record's contents column.
type Contents struct {
	Msg string `json:"msg"`
	IV  string `json:"iv"`
}

// EncodeContents renders m as {"msg":…,"iv":…} with base64 fields.
func EncodeContents(m EncryptedMessage) (string, error) {
	b, err := json.Marshal(Contents{Msg: ToText(m.Ciphertext), IV: ToText(m.Nonce[:])})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeContents parses a contents string produced by EncodeContents.
func DecodeContents(s string) (EncryptedMessage, error) {
	var c Contents
	if err := json.Unmarshal([]byte(s), &c); err != nil {
		return EncryptedMessage{}, fmt.Errorf("%w: contents: %v", ErrProtocol, err)
	}
	ct, err := FromText(c.Msg)
	if err != nil {
		return EncryptedMessage{}, fmt.Errorf("contents msg: %w", err)
	}
	iv, err := FromText(c.IV)
	if err != nil {
		return EncryptedMessage{}, fmt.Errorf("contents iv: %w", err)
	}
	if len(iv) != NonceSize {
		return EncryptedMessage{}, fmt.Errorf("%w: nonce must be %d bytes, got %d", ErrProtocol, NonceSize, len(iv))
	}
	m := EncryptedMessage{Ciphertext: ct}
	copy(m.Nonce[:], iv)
	return m, nil
}
