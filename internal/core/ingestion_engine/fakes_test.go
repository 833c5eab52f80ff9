package ingestion_engine

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/oluseyi-dev/docdex/internal/core"
	"github.com/oluseyi-dev/docdex/internal/models"
)

// memStore is an in-memory core.VectorStore for pipeline tests.
type memStore struct {
	mu       sync.Mutex
	seq      int64
	cols     map[string]*memCollection
	failNext int // fail this many upserts, then succeed
	upserts  int
}

type memCollection struct {
	id        int64
	createdAt time.Time
	records   map[string]models.ChunkRecord
}

func newMemStore() *memStore {
	return &memStore{cols: map[string]*memCollection{}}
}

func (s *memStore) CreateCollection(ctx context.Context, name string) (core.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cols[name]; ok {
		return core.Collection{}, fmt.Errorf("collection exists: %s", name)
	}
	s.seq++
	s.cols[name] = &memCollection{id: s.seq, createdAt: time.Now(), records: map[string]models.ChunkRecord{}}
	return core.Collection{ID: s.seq, Name: name}, nil
}

func (s *memStore) GetCollection(ctx context.Context, name string) (core.Collection, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	col, ok := s.cols[name]
	if !ok {
		return core.Collection{}, false, nil
	}
	return core.Collection{ID: col.id, Name: name}, true, nil
}

func (s *memStore) DeleteCollection(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cols[name]; !ok {
		return fmt.Errorf("collection not found: %s", name)
	}
	delete(s.cols, name)
	return nil
}

func (s *memStore) ListCollections(ctx context.Context) ([]models.CollectionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.CollectionInfo
	for name, col := range s.cols {
		out = append(out, models.CollectionInfo{Name: name, Count: len(col.records), CreatedAt: col.createdAt})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *memStore) Count(ctx context.Context, col core.Collection) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	mc, ok := s.cols[col.Name]
	if !ok {
		return 0, fmt.Errorf("collection not found: %s", col.Name)
	}
	return len(mc.records), nil
}

func (s *memStore) ChunkIDs(ctx context.Context, col core.Collection) (map[string]struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	mc, ok := s.cols[col.Name]
	if !ok {
		return nil, fmt.Errorf("collection not found: %s", col.Name)
	}
	ids := make(map[string]struct{}, len(mc.records))
	for id := range mc.records {
		ids[id] = struct{}{}
	}
	return ids, nil
}

func (s *memStore) Upsert(ctx context.Context, col core.Collection, records []models.ChunkRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upserts++
	if s.failNext > 0 {
		s.failNext--
		return fmt.Errorf("injected upsert failure")
	}
	mc, ok := s.cols[col.Name]
	if !ok {
		return fmt.Errorf("collection not found: %s", col.Name)
	}
	for _, rec := range records {
		mc.records[rec.ID] = rec
	}
	return nil
}

func (s *memStore) Close() error { return nil }

func (s *memStore) count(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if col, ok := s.cols[name]; ok {
		return len(col.records)
	}
	return 0
}

// fakeSource serves documents from a map.
type fakeSource struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newFakeSource(files map[string][]byte) *fakeSource {
	return &fakeSource{files: files}
}

func (s *fakeSource) List(ctx context.Context) ([]models.SourceFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.SourceFile
	for id := range s.files {
		out = append(out, models.SourceFile{ID: id, ContentType: "text/plain"})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeSource) Read(ctx context.Context, id string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.files[id]
	if !ok {
		return nil, fmt.Errorf("no such file: %s", id)
	}
	return raw, nil
}

func (s *fakeSource) set(id string, raw []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[id] = raw
}

// textExtractor passes raw bytes through as text.
type textExtractor struct{}

func (textExtractor) ExtractText(ctx context.Context, raw []byte, contentType string) (string, error) {
	return string(raw), nil
}

// pipeSplitter splits on "|" for precise chunk counting in tests.
type pipeSplitter struct{}

func (pipeSplitter) Split(text string) []string {
	var out []string
	for _, part := range strings.Split(text, "|") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// stubEmbedder returns a deterministic vector per text and counts calls.
type stubEmbedder struct {
	mu     sync.Mutex
	calls  int
	failOn map[string]bool
}

func newStubEmbedder() *stubEmbedder {
	return &stubEmbedder{failOn: map[string]bool{}}
}

func (e *stubEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([][]float32, 0, len(texts))
	for _, t := range texts {
		if e.failOn[t] {
			return nil, fmt.Errorf("injected embed failure for %q", t)
		}
		e.calls++
		out = append(out, []float32{float32(len(t)), 1})
	}
	return out, nil
}

func (e *stubEmbedder) callCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}
