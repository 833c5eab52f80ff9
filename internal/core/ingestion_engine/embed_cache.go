package ingestion_engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// EmbeddingCache persists one computed embedding per chunk id so reruns never
// pay for the embedding model twice for the same content. Entries are
// content-addressed: the chunk id is itself a digest of text+source, so the
// same chunk always hits regardless of which run produced the entry.
//
// Each entry is its own JSON file under dir. A corrupt or unreadable entry is
// a miss, not an error; a half-written file from a crashed run just costs one
// recomputation.
type EmbeddingCache struct {
	dir    string
	logger *zap.Logger
}

func NewEmbeddingCache(dir string, logger *zap.Logger) (*EmbeddingCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create embedding cache dir: %w", err)
	}
	return &EmbeddingCache{dir: dir, logger: logger}, nil
}

// Get returns the cached embedding for chunkID, or ok=false on a miss.
func (c *EmbeddingCache) Get(chunkID string) ([]float32, bool) {
	raw, err := os.ReadFile(c.entryPath(chunkID))
	if err != nil {
		return nil, false
	}
	var vec []float32
	if err := json.Unmarshal(raw, &vec); err != nil {
		c.logger.Warn("corrupt embedding cache entry, treating as miss",
			zap.String("chunk_id", chunkID), zap.Error(err))
		return nil, false
	}
	if len(vec) == 0 {
		return nil, false
	}
	return vec, true
}

// Put stores the embedding for chunkID.
func (c *EmbeddingCache) Put(chunkID string, vec []float32) error {
	raw, err := json.Marshal(vec)
	if err != nil {
		return fmt.Errorf("marshal embedding: %w", err)
	}
	if err := os.WriteFile(c.entryPath(chunkID), raw, 0o644); err != nil {
		return fmt.Errorf("write embedding cache entry: %w", err)
	}
	return nil
}

func (c *EmbeddingCache) entryPath(chunkID string) string {
	return filepath.Join(c.dir, chunkID+".json")
}
