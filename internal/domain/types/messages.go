package types

import "time"

// ConversationEntry links two users. UserOne created it.
type ConversationEntry struct {
	ID        ConversationID `json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UserOne   UserID         `json:"user_one"`
	UserTwo   UserID         `json:"user_two"`
}

// Peer returns the participant that is not me.
func (c ConversationEntry) Peer(me UserID) UserID {
	if c.UserOne == me {
		return c.UserTwo
	}
	return c.UserOne
}

// Has reports whether u takes part in the conversation.
func (c ConversationEntry) Has(u UserID) bool { return c.UserOne == u || c.UserTwo == u }

// MessageEntry is the stored form of a message. Contents is opaque to the
// relay; clients fill it with the sealed-message JSON.
type MessageEntry struct {
	ID             MessageID      `json:"id"`
	CreatedAt      time.Time      `json:"created_at"`
	Sender         UserID         `json:"sender"`
	Contents       string         `json:"contents"`
	ConversationID ConversationID `json:"conversation_id"`
}

// DecryptedMessage is a message after decryption. When Failed is set, Text
// holds a placeholder, never partial plaintext.
type DecryptedMessage struct {
	ID        MessageID `json:"id"`
	Sender    UserID    `json:"sender"`
	CreatedAt time.Time `json:"created_at"`
	Text      string    `json:"text"`
	Failed    bool      `json:"failed,omitempty"`
}

// FailedText replaces the text of a message that did not decrypt.
const FailedText = "[Failed to decrypt]"
