package memory

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	memoryrepo "github.com/majordome-app/majordome/internal/application/repository/memory"
	"github.com/majordome-app/majordome/internal/database"
	"github.com/majordome-app/majordome/internal/types"
	"github.com/majordome-app/majordome/internal/types/interfaces"
)

func newTestService(t *testing.T) (interfaces.MemoryService, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return NewMemoryService(memoryrepo.NewMemoryRepository(db)), db
}

func setLastAccessed(t *testing.T, db *gorm.DB, id string, at time.Time) {
	t.Helper()
	require.NoError(t, db.Model(&types.Memory{}).
		Where("id = ?", id).
		Update("last_accessed", at).Error)
}

func TestStoreMemoryDefaults(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	memory, err := svc.StoreMemory(ctx, interfaces.StoreMemoryParams{
		Content:  "préfère le café sans sucre",
		Category: "preferences",
		Keywords: []string{"café", "sucre"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, memory.ID)
	assert.Equal(t, 1.0, memory.Importance)
	assert.JSONEq(t, `["café","sucre"]`, memory.Keywords)
	assert.Zero(t, memory.AccessCount)
	assert.False(t, memory.LastAccessed.IsZero())
}

func TestStoreMemoryEmptyContent(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.StoreMemory(context.Background(), interfaces.StoreMemoryParams{})
	assert.Error(t, err)
}

func TestGetRelevantMemoriesSubstringAndOrder(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	low, err := svc.StoreMemory(ctx, interfaces.StoreMemoryParams{
		Content:    "la base utilise pgvector pour les embeddings",
		Importance: 0.4,
	})
	require.NoError(t, err)
	high, err := svc.StoreMemory(ctx, interfaces.StoreMemoryParams{
		Content:    "migrer l'index PGVector avant la mise en production",
		Importance: 0.9,
	})
	require.NoError(t, err)
	_, err = svc.StoreMemory(ctx, interfaces.StoreMemoryParams{
		Content:    "acheter du pain",
		Importance: 1.0,
	})
	require.NoError(t, err)

	found, err := svc.GetRelevantMemories(ctx, "pgvector", "", 10)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, high.ID, found[0].ID)
	assert.Equal(t, low.ID, found[1].ID)
}

func TestGetRelevantMemoriesTieBreakOnLastAccessed(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	older, err := svc.StoreMemory(ctx, interfaces.StoreMemoryParams{
		Content:    "projet alpha: réunion lundi",
		Importance: 0.5,
	})
	require.NoError(t, err)
	newer, err := svc.StoreMemory(ctx, interfaces.StoreMemoryParams{
		Content:    "projet alpha: relire le compte rendu",
		Importance: 0.5,
	})
	require.NoError(t, err)

	now := time.Now()
	setLastAccessed(t, db, older.ID, now.Add(-48*time.Hour))
	setLastAccessed(t, db, newer.ID, now.Add(-time.Hour))

	found, err := svc.GetRelevantMemories(ctx, "alpha", "", 10)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, newer.ID, found[0].ID)
	assert.Equal(t, older.ID, found[1].ID)
}

func TestGetRelevantMemoriesCategoryFilter(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.StoreMemory(ctx, interfaces.StoreMemoryParams{
		Content:  "adore la randonnée",
		Category: "preferences",
	})
	require.NoError(t, err)
	_, err = svc.StoreMemory(ctx, interfaces.StoreMemoryParams{
		Content:  "randonnée prévue samedi",
		Category: "agenda",
	})
	require.NoError(t, err)

	found, err := svc.GetRelevantMemories(ctx, "randonnée", "preferences", 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "preferences", found[0].Category)
}

func TestAccessMemoryBumpsStatistics(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	memory, err := svc.StoreMemory(ctx, interfaces.StoreMemoryParams{Content: "anniversaire le 3 mars"})
	require.NoError(t, err)
	created := memory.LastAccessed

	time.Sleep(5 * time.Millisecond)
	accessed, err := svc.AccessMemory(ctx, memory.ID)
	require.NoError(t, err)
	require.NotNil(t, accessed)
	assert.Equal(t, 1, accessed.AccessCount)
	assert.True(t, accessed.LastAccessed.After(created))

	accessed, err = svc.AccessMemory(ctx, memory.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, accessed.AccessCount)
}

func TestAccessMemoryMissing(t *testing.T) {
	svc, _ := newTestService(t)

	memory, err := svc.AccessMemory(context.Background(), "does-not-exist")
	require.NoError(t, err)
	assert.Nil(t, memory)
}

func TestUpdateImportanceClamps(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	memory, err := svc.StoreMemory(ctx, interfaces.StoreMemoryParams{Content: "à clamper"})
	require.NoError(t, err)

	cases := []struct {
		input    float64
		expected float64
	}{
		{-0.5, 0.0},
		{1.7, 1.0},
		{0.4, 0.4},
	}
	for _, tc := range cases {
		ok, err := svc.UpdateImportance(ctx, memory.ID, tc.input)
		require.NoError(t, err)
		assert.True(t, ok)

		stored, err := svc.AccessMemory(ctx, memory.ID)
		require.NoError(t, err)
		assert.Equal(t, tc.expected, stored.Importance, "input %v", tc.input)
	}

	ok, err := svc.UpdateImportance(ctx, "does-not-exist", 0.5)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGetByCategoryOrderedByImportance(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	minor, err := svc.StoreMemory(ctx, interfaces.StoreMemoryParams{
		Content: "détail", Category: "travail", Importance: 0.2,
	})
	require.NoError(t, err)
	major, err := svc.StoreMemory(ctx, interfaces.StoreMemoryParams{
		Content: "échéance critique", Category: "travail", Importance: 0.9,
	})
	require.NoError(t, err)

	found, err := svc.GetByCategory(ctx, "travail", 10)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, major.ID, found[0].ID)
	assert.Equal(t, minor.ID, found[1].ID)
}

func TestCleanupOldMemories(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	now := time.Now()

	oldUnimportant, err := svc.StoreMemory(ctx, interfaces.StoreMemoryParams{
		Content: "vieux et sans importance", Importance: 0.2,
	})
	require.NoError(t, err)
	setLastAccessed(t, db, oldUnimportant.ID, now.AddDate(0, 0, -100))

	oldImportant, err := svc.StoreMemory(ctx, interfaces.StoreMemoryParams{
		Content: "vieux mais important", Importance: 0.5,
	})
	require.NoError(t, err)
	setLastAccessed(t, db, oldImportant.ID, now.AddDate(0, 0, -100))

	recentUnimportant, err := svc.StoreMemory(ctx, interfaces.StoreMemoryParams{
		Content: "récent et sans importance", Importance: 0.1,
	})
	require.NoError(t, err)
	setLastAccessed(t, db, recentUnimportant.ID, now.AddDate(0, 0, -1))

	deleted, err := svc.CleanupOldMemories(ctx, 90, 0.3)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	gone, err := svc.AccessMemory(ctx, oldUnimportant.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	kept, err := svc.AccessMemory(ctx, oldImportant.ID)
	require.NoError(t, err)
	assert.NotNil(t, kept)

	kept, err = svc.AccessMemory(ctx, recentUnimportant.ID)
	require.NoError(t, err)
	assert.NotNil(t, kept)
}
