package models

// Role identifies the originator of a conversation turn
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// ConversationTurn is one message of a chat-style interaction
type ConversationTurn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
