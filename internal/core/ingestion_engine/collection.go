package ingestion_engine

import (
	"context"
	"fmt"

	"github.com/oluseyi-dev/docdex/internal/core"
	"github.com/oluseyi-dev/docdex/internal/models"
	"go.uber.org/zap"
)

// CollectionManager owns the lifecycle of the persistent collection:
// create-if-absent, full rebuild-by-deletion, and the existing-id snapshot
// the dedup decisions are checked against.
type CollectionManager struct {
	store  core.VectorStore
	logger *zap.Logger
}

func NewCollectionManager(store core.VectorStore, logger *zap.Logger) *CollectionManager {
	return &CollectionManager{store: store, logger: logger}
}

// OpenOrCreate returns the existing collection of that name, creating an
// empty one when absent.
func (m *CollectionManager) OpenOrCreate(ctx context.Context, name string) (core.Collection, error) {
	col, found, err := m.store.GetCollection(ctx, name)
	if err != nil {
		return core.Collection{}, fmt.Errorf("get collection %q: %w", name, err)
	}
	if found {
		count, err := m.store.Count(ctx, col)
		if err != nil {
			return core.Collection{}, fmt.Errorf("count collection %q: %w", name, err)
		}
		m.logger.Info("using existing collection", zap.String("collection", name), zap.Int("items", count))
		return col, nil
	}

	m.logger.Info("creating collection", zap.String("collection", name))
	col, err = m.store.CreateCollection(ctx, name)
	if err != nil {
		return core.Collection{}, fmt.Errorf("create collection %q: %w", name, err)
	}
	return col, nil
}

// Rebuild deletes any existing collection of that name and creates a fresh
// empty one; used for a full reindex.
func (m *CollectionManager) Rebuild(ctx context.Context, name string) (core.Collection, error) {
	_, found, err := m.store.GetCollection(ctx, name)
	if err != nil {
		return core.Collection{}, fmt.Errorf("get collection %q: %w", name, err)
	}
	if found {
		if err := m.store.DeleteCollection(ctx, name); err != nil {
			return core.Collection{}, fmt.Errorf("delete collection %q: %w", name, err)
		}
		m.logger.Info("old collection deleted", zap.String("collection", name))
	}
	col, err := m.store.CreateCollection(ctx, name)
	if err != nil {
		return core.Collection{}, fmt.Errorf("recreate collection %q: %w", name, err)
	}
	return col, nil
}

// ExistingIDs takes the start-of-run membership snapshot. Ids flushed later
// in the same run are deliberately not visible to later checks: id derivation
// already guarantees a duplicate id is never computed twice in one run for
// unchanged source content.
func (m *CollectionManager) ExistingIDs(ctx context.Context, col core.Collection) (map[string]struct{}, error) {
	ids, err := m.store.ChunkIDs(ctx, col)
	if err != nil {
		return nil, fmt.Errorf("snapshot ids of %q: %w", col.Name, err)
	}
	return ids, nil
}

// Upsert forwards one batch to the store: all-or-nothing for the batch, no
// rollback of earlier batches.
func (m *CollectionManager) Upsert(ctx context.Context, col core.Collection, records []models.ChunkRecord) error {
	return m.store.Upsert(ctx, col, records)
}

// List reports the stored collections with their record counts.
func (m *CollectionManager) List(ctx context.Context) ([]models.CollectionInfo, error) {
	return m.store.ListCollections(ctx)
}
