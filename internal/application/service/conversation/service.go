package conversation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/majordome-app/majordome/internal/logger"
	"github.com/majordome-app/majordome/internal/types"
	"github.com/majordome-app/majordome/internal/types/interfaces"
)

// defaultTitleLayout formats the creation-timestamp label used when a
// conversation is created without a title (French date order)
const defaultTitleLayout = "02/01/2006 à 15:04"

// conversationService implements the ConversationService interface
type conversationService struct {
	repo interfaces.ConversationRepository
	now  func() time.Time
}

// NewConversationService creates a new conversation service
func NewConversationService(repo interfaces.ConversationRepository) interfaces.ConversationService {
	return &conversationService{
		repo: repo,
		now:  time.Now,
	}
}

// CreateConversation creates a conversation, defaulting the title to a
// "Conversation du <date>" label
func (s *conversationService) CreateConversation(ctx context.Context, title string) (*types.Conversation, error) {
	if strings.TrimSpace(title) == "" {
		title = fmt.Sprintf("Conversation du %s", s.now().Format(defaultTitleLayout))
	}

	conversation := &types.Conversation{Title: title}
	if err := s.repo.Create(ctx, conversation); err != nil {
		return nil, err
	}
	logger.Info(ctx, "created conversation %s", conversation.ID)
	return conversation, nil
}

func (s *conversationService) GetConversation(ctx context.Context, id string) (*types.Conversation, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *conversationService) ListConversations(ctx context.Context, limit int, archived bool) ([]*types.Conversation, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.List(ctx, limit, archived)
}

// AppendMessage persists a message. The repository guarantees the insert
// and the owning conversation's updated_at refresh commit together.
func (s *conversationService) AppendMessage(ctx context.Context, conversationID string, role types.MessageRole, content string) (*types.Message, error) {
	if content == "" {
		return nil, fmt.Errorf("message content must not be empty")
	}

	message := &types.Message{
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
	}
	if err := s.repo.AppendMessage(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}

func (s *conversationService) ListMessages(ctx context.Context, conversationID string, limit int) ([]*types.Message, error) {
	if limit <= 0 {
		limit = 100
	}
	return s.repo.ListMessages(ctx, conversationID, limit)
}

// GetContext returns the last maxMessages messages as {role, content}
// entries in chronological order, ready to prepend to an LLM request
func (s *conversationService) GetContext(ctx context.Context, conversationID string, maxMessages int) ([]types.ChatEntry, error) {
	if maxMessages <= 0 {
		maxMessages = 20
	}

	messages, err := s.repo.LatestMessages(ctx, conversationID, maxMessages)
	if err != nil {
		return nil, err
	}

	entries := make([]types.ChatEntry, 0, len(messages))
	for _, message := range messages {
		entries = append(entries, types.ChatEntry{
			Role:    message.Role,
			Content: message.Content,
		})
	}
	return entries, nil
}

func (s *conversationService) SearchConversations(ctx context.Context, query string, limit int) ([]*types.Conversation, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.repo.SearchByTitle(ctx, query, limit)
}

func (s *conversationService) ArchiveConversation(ctx context.Context, id string) (bool, error) {
	return s.repo.SetArchived(ctx, id, true)
}

func (s *conversationService) DeleteConversation(ctx context.Context, id string) (bool, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		logger.Info(ctx, "deleted conversation %s", id)
	}
	return deleted, nil
}

func (s *conversationService) UpdateTitle(ctx context.Context, id string, title string) (bool, error) {
	return s.repo.UpdateTitle(ctx, id, title)
}
