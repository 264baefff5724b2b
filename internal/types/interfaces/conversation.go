package interfaces

import (
	"context"

	"github.com/majordome-app/majordome/internal/types"
)

// ConversationService defines the interface for conversation management
type ConversationService interface {
	// CreateConversation creates a conversation; an empty title is replaced
	// by a creation-timestamp label
	CreateConversation(ctx context.Context, title string) (*types.Conversation, error)

	// GetConversation returns the conversation or nil when absent
	GetConversation(ctx context.Context, id string) (*types.Conversation, error)

	// ListConversations lists conversations filtered by the archived flag,
	// most recently updated first
	ListConversations(ctx context.Context, limit int, archived bool) ([]*types.Conversation, error)

	// AppendMessage appends a message and refreshes the conversation's
	// updated_at in the same transaction. Returns
	// types.ErrConversationNotFound when the conversation does not exist.
	AppendMessage(ctx context.Context, conversationID string, role types.MessageRole, content string) (*types.Message, error)

	// ListMessages returns the conversation's messages in chronological order
	ListMessages(ctx context.Context, conversationID string, limit int) ([]*types.Message, error)

	// GetContext returns at most maxMessages of the most recent messages in
	// chronological order, shaped for direct LLM prompt input
	GetContext(ctx context.Context, conversationID string, maxMessages int) ([]types.ChatEntry, error)

	// SearchConversations finds conversations whose title contains the query
	SearchConversations(ctx context.Context, query string, limit int) ([]*types.Conversation, error)

	// ArchiveConversation sets the archived flag; false when not found
	ArchiveConversation(ctx context.Context, id string) (bool, error)

	// DeleteConversation removes the conversation and all its messages;
	// false when not found
	DeleteConversation(ctx context.Context, id string) (bool, error)

	// UpdateTitle renames the conversation; false when not found
	UpdateTitle(ctx context.Context, id string, title string) (bool, error)
}

// ConversationRepository defines the interface for conversation persistence
type ConversationRepository interface {
	// Create persists a new conversation and generates its identity
	Create(ctx context.Context, conversation *types.Conversation) error

	// GetByID returns the conversation or nil when absent
	GetByID(ctx context.Context, id string) (*types.Conversation, error)

	// List returns conversations filtered by the archived flag, ordered by
	// updated_at descending
	List(ctx context.Context, limit int, archived bool) ([]*types.Conversation, error)

	// SearchByTitle returns conversations whose title contains the query
	// (case-insensitive), ordered by updated_at descending
	SearchByTitle(ctx context.Context, query string, limit int) ([]*types.Conversation, error)

	// AppendMessage inserts the message and touches the owning
	// conversation's updated_at atomically. Returns
	// types.ErrConversationNotFound when the conversation does not exist.
	AppendMessage(ctx context.Context, message *types.Message) error

	// ListMessages returns messages of a conversation in chronological order
	ListMessages(ctx context.Context, conversationID string, limit int) ([]*types.Message, error)

	// LatestMessages returns the newest limit messages in chronological order
	LatestMessages(ctx context.Context, conversationID string, limit int) ([]*types.Message, error)

	// SetArchived flips the archived flag; reports whether a row matched
	SetArchived(ctx context.Context, id string, archived bool) (bool, error)

	// UpdateTitle renames the conversation; reports whether a row matched
	UpdateTitle(ctx context.Context, id string, title string) (bool, error)

	// Delete removes the conversation and cascades message deletion;
	// reports whether a row matched
	Delete(ctx context.Context, id string) (bool, error)
}
