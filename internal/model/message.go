package model

// Message is a chat entry inside a conversation. Conversations are keyed
// by an opaque id; the client uses the project id by default.
type Message struct {
	ID             int64  `json:"id"`
	ConversationID string `json:"conversation_id"`
	UserID         string `json:"user_id"`
	UserName       string `json:"user_name"`
	Text           string `json:"message_text"`
	CreatedAt      string `json:"created_at"`
}
