package ingestion_engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

const hashIndexFile = "file_hashes.json"

// HashIndex is the durable file_identifier -> content_digest mapping that
// drives change detection. A file's digest is recorded only after every chunk
// derived from that file version has been flushed to the collection, so the
// index never claims more than the store actually holds.
type HashIndex struct {
	path    string
	entries map[string]string
	logger  *zap.Logger
}

// LoadHashIndex reads the persisted index from dir. A missing or corrupt
// file is treated as an empty index (process everything), never as fatal.
func LoadHashIndex(dir string, logger *zap.Logger) *HashIndex {
	h := &HashIndex{
		path:    filepath.Join(dir, hashIndexFile),
		entries: map[string]string{},
		logger:  logger,
	}

	raw, err := os.ReadFile(h.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("hash index unreadable, starting empty", zap.String("path", h.path), zap.Error(err))
		}
		return h
	}
	if err := json.Unmarshal(raw, &h.entries); err != nil {
		logger.Warn("hash index corrupt, starting empty", zap.String("path", h.path), zap.Error(err))
		h.entries = map[string]string{}
	}
	return h
}

// NeedsProcessing reports whether file must be (re)processed: false only when
// the index already records exactly digest for that identifier.
func (h *HashIndex) NeedsProcessing(file, digest string) bool {
	return h.entries[file] != digest
}

// Commit durably records the association. Callers invoke it strictly after
// the file's whole chunk set has been confirmed written.
func (h *HashIndex) Commit(file, digest string) error {
	h.entries[file] = digest
	return h.persist()
}

func (h *HashIndex) persist() error {
	if err := os.MkdirAll(filepath.Dir(h.path), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	raw, err := json.MarshalIndent(h.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal hash index: %w", err)
	}
	if err := os.WriteFile(h.path, raw, 0o644); err != nil {
		return fmt.Errorf("write hash index: %w", err)
	}
	return nil
}

// Len returns the number of tracked files.
func (h *HashIndex) Len() int {
	return len(h.entries)
}
