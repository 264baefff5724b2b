package types

import "time"

// Memory represents a long-term memory entry of the assistant
type Memory struct {
	ID      string `json:"id" gorm:"type:varchar(36);primaryKey"`
	Content string `json:"content" gorm:"type:text;not null"`
	// Context is a human-readable provenance note describing where the
	// memory was learned
	Context  string `json:"context,omitempty" gorm:"type:text"`
	Category string `json:"category,omitempty" gorm:"type:varchar(100);index"`
	// Importance scores the memory in [0.0, 1.0]
	Importance float64 `json:"importance" gorm:"default:1.0"`
	// Keywords is a JSON array of search keywords
	Keywords string `json:"keywords,omitempty" gorm:"type:text"`
	// Embedding is reserved for semantic search and not consulted by any query yet
	Embedding    string    `json:"-" gorm:"type:text"`
	CreatedAt    time.Time `json:"created_at"`
	LastAccessed time.Time `json:"last_accessed"`
	AccessCount  int       `json:"access_count" gorm:"default:0"`

	// Weak references: deleting the related rows does not delete the memory
	RelatedConversationID *string `json:"related_conversation_id,omitempty" gorm:"type:varchar(36)"`
	RelatedDocumentID     *string `json:"related_document_id,omitempty" gorm:"type:varchar(36)"`
}

// TableName returns the table name of the Memory model
func (Memory) TableName() string {
	return "memories"
}
