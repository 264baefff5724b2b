package memory

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

// memoryRepository implements the MemoryRepository interface over gorm
type memoryRepository struct {
	db *gorm.DB
}

// NewMemoryRepository creates a new memory repository
func NewMemoryRepository(db *gorm.DB) interfaces.MemoryRepository {
	return &memoryRepository{db: db}
}

func (r *memoryRepository) Create(ctx context.Context, memory *types.Memory) error {
	if memory.ID == "" {
		memory.ID = uuid.New().String()
	}
	now := time.Now()
	memory.CreatedAt = now
	memory.LastAccessed = now
	if err := r.db.WithContext(ctx).Create(memory).Error; err != nil {
		return fmt.Errorf("failed to create memory: %w", err)
	}
	return nil
}

func (r *memoryRepository) GetByID(ctx context.Context, id string) (*types.Memory, error) {
	var memory types.Memory
	err := r.db.WithContext(ctx).First(&memory, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get memory: %w", err)
	}
	return &memory, nil
}

// Search filters by content substring (case-insensitive) and/or exact
// category, ordered by importance then recency of access. This is the
// heuristic stand-in for semantic retrieval; the embedding column is not
// consulted.
func (r *memoryRepository) Search(ctx context.Context, query string, category string, limit int) ([]*types.Memory, error) {
	tx := r.db.WithContext(ctx).Model(&types.Memory{})
	if category != "" {
		tx = tx.Where("category = ?", category)
	}
	if query != "" {
		tx = tx.Where("LOWER(content) LIKE LOWER(?)", "%"+query+"%")
	}

	var memories []*types.Memory
	err := tx.Order("importance DESC").
		Order("last_accessed DESC").
		Limit(limit).
		Find(&memories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search memories: %w", err)
	}
	return memories, nil
}

func (r *memoryRepository) ListByCategory(ctx context.Context, category string, limit int) ([]*types.Memory, error) {
	var memories []*types.Memory
	err := r.db.WithContext(ctx).
		Where("category = ?", category).
		Order("importance DESC").
		Limit(limit).
		Find(&memories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list memories by category: %w", err)
	}
	return memories, nil
}

// Touch bumps the access statistics in a single statement so concurrent
// accesses cannot leave the row half-updated
func (r *memoryRepository) Touch(ctx context.Context, id string, accessedAt time.Time) error {
	err := r.db.WithContext(ctx).Model(&types.Memory{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"last_accessed": accessedAt,
			"access_count":  gorm.Expr("access_count + 1"),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to touch memory: %w", err)
	}
	return nil
}

func (r *memoryRepository) UpdateImportance(ctx context.Context, id string, importance float64) (bool, error) {
	res := r.db.WithContext(ctx).Model(&types.Memory{}).
		Where("id = ?", id).
		Update("importance", importance)
	if res.Error != nil {
		return false, fmt.Errorf("failed to update memory importance: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// DeleteStale removes rows that are both old and unimportant. A memory
// that is old but important, or unimportant but recently accessed,
// survives.
func (r *memoryRepository) DeleteStale(ctx context.Context, cutoff time.Time, importanceThreshold float64) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("last_accessed < ? AND importance < ?", cutoff, importanceThreshold).
		Delete(&types.Memory{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete stale memories: %w", res.Error)
	}
	return res.RowsAffected, nil
}
