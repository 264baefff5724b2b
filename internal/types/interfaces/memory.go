package interfaces

import (
	"context"
	"time"

	"github.com/majordome-app/majordome/internal/types"
)

// StoreMemoryParams carries the inputs for storing a new memory
type StoreMemoryParams struct {
	Content               string
	Context               string
	Category              string
	Importance            float64
	Keywords              []string
	RelatedConversationID *string
}

// MemoryService defines the interface for the long-term memory system
type MemoryService interface {
	// StoreMemory persists a new memory entry
	StoreMemory(ctx context.Context, params StoreMemoryParams) (*types.Memory, error)

	// GetRelevantMemories retrieves memories matching the query substring
	// and/or category, ranked by importance then recency of access
	GetRelevantMemories(ctx context.Context, query string, category string, limit int) ([]*types.Memory, error)

	// AccessMemory reads a memory and bumps its access statistics.
	// Returns (nil, nil) when the memory does not exist.
	AccessMemory(ctx context.Context, id string) (*types.Memory, error)

	// UpdateImportance clamps the value into [0.0, 1.0] and stores it.
	// Returns false when the memory does not exist.
	UpdateImportance(ctx context.Context, id string, importance float64) (bool, error)

	// GetByCategory lists memories of a category by importance descending
	GetByCategory(ctx context.Context, category string, limit int) ([]*types.Memory, error)

	// CleanupOldMemories deletes memories last accessed before the day
	// threshold whose importance is below the importance threshold, and
	// returns the number of rows removed
	CleanupOldMemories(ctx context.Context, daysThreshold int, importanceThreshold float64) (int64, error)
}

// MemoryRepository defines the interface for memory persistence
type MemoryRepository interface {
	// Create persists a new memory and generates its identity
	Create(ctx context.Context, memory *types.Memory) error

	// GetByID returns the memory or nil when absent
	GetByID(ctx context.Context, id string) (*types.Memory, error)

	// Search returns memories whose content contains the query
	// (case-insensitive), optionally restricted to a category, ordered by
	// importance descending then last_accessed descending
	Search(ctx context.Context, query string, category string, limit int) ([]*types.Memory, error)

	// ListByCategory returns memories of a category by importance descending
	ListByCategory(ctx context.Context, category string, limit int) ([]*types.Memory, error)

	// Touch atomically sets last_accessed and increments access_count
	Touch(ctx context.Context, id string, accessedAt time.Time) error

	// UpdateImportance stores a new importance value; reports whether a row matched
	UpdateImportance(ctx context.Context, id string, importance float64) (bool, error)

	// DeleteStale removes rows with last_accessed before the cutoff and
	// importance strictly below the threshold, returning the deleted count
	DeleteStale(ctx context.Context, cutoff time.Time, importanceThreshold float64) (int64, error)
}
