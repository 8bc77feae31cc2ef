package types

// Contact is a locally cached peer.
type Contact struct {
	UserID         UserID         `json:"user_id"`
	Email          Email          `json:"email"`
	PublicKey      string         `json:"public_key"`
	ConversationID ConversationID `json:"conversation_id,omitempty"`
}
