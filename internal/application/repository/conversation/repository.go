package conversation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/majordome-app/majordome/internal/types"
	"github.com/majordome-app/majordome/internal/types/interfaces"
)

// conversationRepository implements the ConversationRepository interface
// over gorm
type conversationRepository struct {
	db *gorm.DB
}

// NewConversationRepository creates a new conversation repository
func NewConversationRepository(db *gorm.DB) interfaces.ConversationRepository {
	return &conversationRepository{db: db}
}

func (r *conversationRepository) Create(ctx context.Context, conversation *types.Conversation) error {
	if conversation.ID == "" {
		conversation.ID = uuid.New().String()
	}
	now := time.Now()
	conversation.CreatedAt = now
	conversation.UpdatedAt = now
	if err := r.db.WithContext(ctx).Create(conversation).Error; err != nil {
		return fmt.Errorf("failed to create conversation: %w", err)
	}
	return nil
}

func (r *conversationRepository) GetByID(ctx context.Context, id string) (*types.Conversation, error) {
	var conversation types.Conversation
	err := r.db.WithContext(ctx).First(&conversation, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	return &conversation, nil
}

func (r *conversationRepository) List(ctx context.Context, limit int, archived bool) ([]*types.Conversation, error) {
	var conversations []*types.Conversation
	err := r.db.WithContext(ctx).
		Where("is_archived = ?", archived).
		Order("updated_at DESC").
		Limit(limit).
		Find(&conversations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	return conversations, nil
}

func (r *conversationRepository) SearchByTitle(ctx context.Context, query string, limit int) ([]*types.Conversation, error) {
	var conversations []*types.Conversation
	err := r.db.WithContext(ctx).
		Where("LOWER(title) LIKE LOWER(?)", "%"+query+"%").
		Order("updated_at DESC").
		Limit(limit).
		Find(&conversations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search conversations: %w", err)
	}
	return conversations, nil
}

// AppendMessage inserts the message and refreshes the owning
// conversation's updated_at in one transaction, so a reader can never
// observe a new message next to a stale timestamp.
func (r *conversationRepository) AppendMessage(ctx context.Context, message *types.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	now := time.Now()
	message.CreatedAt = now

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&types.Conversation{}).
			Where("id = ?", message.ConversationID).
			UpdateColumn("updated_at", now)
		if res.Error != nil {
			return fmt.Errorf("failed to touch conversation: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return types.ErrConversationNotFound
		}
		if err := tx.Create(message).Error; err != nil {
			return fmt.Errorf("failed to create message: %w", err)
		}
		return nil
	})
}

func (r *conversationRepository) ListMessages(ctx context.Context, conversationID string, limit int) ([]*types.Message, error) {
	var messages []*types.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

// LatestMessages returns the newest limit messages, reordered oldest first
func (r *conversationRepository) LatestMessages(ctx context.Context, conversationID string, limit int) ([]*types.Message, error) {
	var messages []*types.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list latest messages: %w", err)
	}
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (r *conversationRepository) SetArchived(ctx context.Context, id string, archived bool) (bool, error) {
	// UpdateColumn keeps updated_at untouched: archiving is not an
	// activity signal for list ordering
	res := r.db.WithContext(ctx).Model(&types.Conversation{}).
		Where("id = ?", id).
		UpdateColumn("is_archived", archived)
	if res.Error != nil {
		return false, fmt.Errorf("failed to archive conversation: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *conversationRepository) UpdateTitle(ctx context.Context, id string, title string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&types.Conversation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"title":      title,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, fmt.Errorf("failed to update conversation title: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Delete removes the conversation and its messages. The cascade is issued
// explicitly so it also holds on SQLite databases opened without the
// foreign_keys pragma.
func (r *conversationRepository) Delete(ctx context.Context, id string) (bool, error) {
	deleted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("conversation_id = ?", id).Delete(&types.Message{}).Error; err != nil {
			return fmt.Errorf("failed to delete messages: %w", err)
		}
		res := tx.Where("id = ?", id).Delete(&types.Conversation{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete conversation: %w", res.Error)
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}
