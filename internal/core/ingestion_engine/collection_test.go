package ingestion_engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/oluseyi-dev/docdex/internal/models"
)

func TestOpenOrCreateIsIdempotent(t *testing.T) {
	manager := NewCollectionManager(newMemStore(), zap.NewNop())
	ctx := context.Background()

	first, err := manager.OpenOrCreate(ctx, "docs")
	require.NoError(t, err)
	assert.Equal(t, "docs", first.Name)

	second, err := manager.OpenOrCreate(ctx, "docs")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "existing collection reused, not recreated")
}

func TestRebuildDropsExistingRecords(t *testing.T) {
	store := newMemStore()
	manager := NewCollectionManager(store, zap.NewNop())
	ctx := context.Background()

	col, err := manager.OpenOrCreate(ctx, "docs")
	require.NoError(t, err)
	require.NoError(t, manager.Upsert(ctx, col, []models.ChunkRecord{
		{ID: "c1", Text: "t", Embedding: []float32{1}, Source: "a"},
	}))
	require.Equal(t, 1, store.count("docs"))

	fresh, err := manager.Rebuild(ctx, "docs")
	require.NoError(t, err)
	assert.Equal(t, 0, store.count("docs"))
	assert.NotEqual(t, col.ID, fresh.ID)

	ids, err := manager.ExistingIDs(ctx, fresh)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestRebuildOnMissingCollectionCreates(t *testing.T) {
	manager := NewCollectionManager(newMemStore(), zap.NewNop())

	col, err := manager.Rebuild(context.Background(), "docs")
	require.NoError(t, err)
	assert.Equal(t, "docs", col.Name)
}

func TestExistingIDsSnapshot(t *testing.T) {
	manager := NewCollectionManager(newMemStore(), zap.NewNop())
	ctx := context.Background()

	col, err := manager.OpenOrCreate(ctx, "docs")
	require.NoError(t, err)
	require.NoError(t, manager.Upsert(ctx, col, []models.ChunkRecord{
		{ID: "c1", Text: "t", Embedding: []float32{1}, Source: "a"},
		{ID: "c2", Text: "u", Embedding: []float32{2}, Source: "a"},
	}))

	ids, err := manager.ExistingIDs(ctx, col)
	require.NoError(t, err)
	assert.Len(t, ids, 2)
	assert.Contains(t, ids, "c1")
	assert.Contains(t, ids, "c2")

	// Writes after the snapshot do not mutate it.
	require.NoError(t, manager.Upsert(ctx, col, []models.ChunkRecord{
		{ID: "c3", Text: "v", Embedding: []float32{3}, Source: "b"},
	}))
	assert.Len(t, ids, 2)
}

func TestListReportsCounts(t *testing.T) {
	manager := NewCollectionManager(newMemStore(), zap.NewNop())
	ctx := context.Background()

	col, err := manager.OpenOrCreate(ctx, "docs")
	require.NoError(t, err)
	_, err = manager.OpenOrCreate(ctx, "notes")
	require.NoError(t, err)
	require.NoError(t, manager.Upsert(ctx, col, []models.ChunkRecord{
		{ID: "c1", Text: "t", Embedding: []float32{1}, Source: "a"},
	}))

	infos, err := manager.List(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "docs", infos[0].Name)
	assert.Equal(t, 1, infos[0].Count)
	assert.Equal(t, "notes", infos[1].Name)
	assert.Equal(t, 0, infos[1].Count)
}
