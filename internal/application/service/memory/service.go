package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/majordome-app/majordome/internal/logger"
	"github.com/majordome-app/majordome/internal/types"
	"github.com/majordome-app/majordome/internal/types/interfaces"
)

// memoryService implements the MemoryService interface
type memoryService struct {
	repo   interfaces.MemoryRepository
	ranker Ranker
	now    func() time.Time
}

// NewMemoryService creates a new memory service with the default
// importance/recency ranker
func NewMemoryService(repo interfaces.MemoryRepository) interfaces.MemoryService {
	return NewMemoryServiceWithRanker(repo, HeuristicRanker{})
}

// NewMemoryServiceWithRanker creates a memory service with a custom
// relevance ranking policy
func NewMemoryServiceWithRanker(repo interfaces.MemoryRepository, ranker Ranker) interfaces.MemoryService {
	return &memoryService{
		repo:   repo,
		ranker: ranker,
		now:    time.Now,
	}
}

// StoreMemory persists a new memory entry. Importance defaults to 1.0 and
// is clamped into [0.0, 1.0].
func (s *memoryService) StoreMemory(ctx context.Context, params interfaces.StoreMemoryParams) (*types.Memory, error) {
	if params.Content == "" {
		return nil, fmt.Errorf("memory content must not be empty")
	}

	importance := params.Importance
	if importance == 0 {
		importance = 1.0
	}

	memory := &types.Memory{
		Content:               params.Content,
		Context:               params.Context,
		Category:              params.Category,
		Importance:            clampImportance(importance),
		RelatedConversationID: params.RelatedConversationID,
	}
	if len(params.Keywords) > 0 {
		encoded, err := json.Marshal(params.Keywords)
		if err != nil {
			return nil, fmt.Errorf("failed to encode keywords: %w", err)
		}
		memory.Keywords = string(encoded)
	}

	if err := s.repo.Create(ctx, memory); err != nil {
		return nil, err
	}
	logger.Info(ctx, "stored memory %s (category=%s)", memory.ID, memory.Category)
	return memory, nil
}

// GetRelevantMemories retrieves memories by content substring and/or
// category, then applies the ranking policy. With the default ranker the
// order is importance descending, ties broken by last_accessed descending.
func (s *memoryService) GetRelevantMemories(ctx context.Context, query string, category string, limit int) ([]*types.Memory, error) {
	if limit <= 0 {
		limit = 10
	}
	memories, err := s.repo.Search(ctx, query, category, limit)
	if err != nil {
		return nil, err
	}
	return s.ranker.Rank(query, memories), nil
}

// AccessMemory reads a memory and bumps last_accessed and access_count
func (s *memoryService) AccessMemory(ctx context.Context, id string) (*types.Memory, error) {
	memory, err := s.repo.GetByID(ctx, id)
	if err != nil || memory == nil {
		return nil, err
	}

	accessedAt := s.now()
	if err := s.repo.Touch(ctx, id, accessedAt); err != nil {
		return nil, err
	}
	memory.LastAccessed = accessedAt
	memory.AccessCount++
	return memory, nil
}

// UpdateImportance clamps the value into [0.0, 1.0] before storing
func (s *memoryService) UpdateImportance(ctx context.Context, id string, importance float64) (bool, error) {
	return s.repo.UpdateImportance(ctx, id, clampImportance(importance))
}

func (s *memoryService) GetByCategory(ctx context.Context, category string, limit int) ([]*types.Memory, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.repo.ListByCategory(ctx, category, limit)
}

// CleanupOldMemories deletes memories that are both stale and unimportant.
// Expected to run periodically out-of-band, not on a request path.
func (s *memoryService) CleanupOldMemories(ctx context.Context, daysThreshold int, importanceThreshold float64) (int64, error) {
	if daysThreshold <= 0 {
		daysThreshold = 90
	}
	if importanceThreshold <= 0 {
		importanceThreshold = 0.3
	}

	cutoff := s.now().AddDate(0, 0, -daysThreshold)
	deleted, err := s.repo.DeleteStale(ctx, cutoff, importanceThreshold)
	if err != nil {
		return 0, err
	}
	logger.Info(ctx, "memory cleanup removed %d entries (older than %d days, importance < %.2f)",
		deleted, daysThreshold, importanceThreshold)
	return deleted, nil
}

func clampImportance(value float64) float64 {
	if value < 0.0 {
		return 0.0
	}
	if value > 1.0 {
		return 1.0
	}
	return value
}
