package types

import "time"

// MessageRole enumerates the author of a message within a conversation
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleSystem    MessageRole = "system"
)

// Conversation represents a chat thread between the user and the assistant
type Conversation struct {
	ID         string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	Title      string    `json:"title" gorm:"type:varchar(255);not null"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"index"`
	IsArchived bool      `json:"is_archived" gorm:"default:false"`

	// Messages are owned by the conversation and removed with it
	Messages []Message `json:"messages,omitempty" gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name of the Conversation model
func (Conversation) TableName() string {
	return "conversations"
}

// Message represents a single turn inside a conversation.
// Messages are immutable once created.
type Message struct {
	ID             string      `json:"id" gorm:"type:varchar(36);primaryKey"`
	ConversationID string      `json:"conversation_id" gorm:"type:varchar(36);not null;index"`
	Role           MessageRole `json:"role" gorm:"type:varchar(20);not null"`
	Content        string      `json:"content" gorm:"type:text;not null"`
	// Embedding is reserved for semantic search and not consulted by any query yet
	Embedding string    `json:"-" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

// TableName returns the table name of the Message model
func (Message) TableName() string {
	return "messages"
}

// ChatEntry is the {role, content} pair handed to the LLM collaborator
type ChatEntry struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`
}
