package ingestion_engine

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oluseyi-dev/docdex/internal/core"
	"github.com/oluseyi-dev/docdex/internal/core/hashing"
	"github.com/oluseyi-dev/docdex/internal/models"
	"go.uber.org/zap"
)

// Orchestrator drives the incremental indexing pipeline: enumerate candidate
// files, detect changes by digest, extract, split, embed (through the cache),
// dedup against the start-of-run id snapshot, accumulate batches and commit
// each file's digest only after all its chunks are durably flushed.
//
// Failures are isolated to the smallest unit possible (batch, then file) so
// one bad document never blocks ingestion of the rest; only setup errors
// abort a run.
type Orchestrator struct {
	manager   *CollectionManager
	tracker   *HashIndex
	cache     *EmbeddingCache
	extractor core.DocumentExtractor
	splitter  core.TextSplitter
	embedder  core.EmbeddingProvider
	batchSize int
	logger    *zap.Logger
}

func NewOrchestrator(
	manager *CollectionManager,
	tracker *HashIndex,
	cache *EmbeddingCache,
	extractor core.DocumentExtractor,
	splitter core.TextSplitter,
	embedder core.EmbeddingProvider,
	batchSize int,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		manager:   manager,
		tracker:   tracker,
		cache:     cache,
		extractor: extractor,
		splitter:  splitter,
		embedder:  embedder,
		batchSize: batchSize,
		logger:    logger,
	}
}

// Run processes every candidate file from source into col. In reload mode the
// hash-index skip is bypassed so the freshly rebuilt collection is complete;
// the index itself is still updated, never reset.
//
// The returned error covers catastrophic setup only (listing the source,
// snapshotting the collection); per-file failures land in the summary.
func (o *Orchestrator) Run(ctx context.Context, source core.DocumentSource, col core.Collection, mode models.RunMode) (*models.RunSummary, error) {
	summary := &models.RunSummary{
		RunID:      uuid.NewString(),
		Collection: col.Name,
		Mode:       mode,
		StartedAt:  time.Now().UTC(),
	}

	files, err := source.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list source: %w", err)
	}
	if len(files) == 0 {
		o.logger.Warn("no candidate files found")
		summary.FinishedAt = time.Now().UTC()
		return summary, nil
	}

	existing, err := o.manager.ExistingIDs(ctx, col)
	if err != nil {
		return nil, err
	}

	force := mode == models.RunModeReload

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res := o.processFile(ctx, source, col, f, existing, force)
		summary.Results = append(summary.Results, res)
		summary.Files++
		summary.ChunksAdded += res.Chunks
		switch res.Status {
		case models.FileStatusSkipped:
			summary.Skipped++
			o.logger.Info("skipped unchanged file", zap.String("file", f.ID))
		case models.FileStatusIndexed:
			summary.Indexed++
			o.logger.Info("file indexed", zap.String("file", f.ID), zap.Int("chunks_added", res.Chunks))
		case models.FileStatusFailed:
			summary.Failed++
			o.logger.Error("file failed", zap.String("file", f.ID), zap.String("reason", res.Reason))
		}
	}

	summary.FinishedAt = time.Now().UTC()
	o.logger.Info("run complete",
		zap.String("run_id", summary.RunID),
		zap.String("mode", string(mode)),
		zap.Int("files", summary.Files),
		zap.Int("indexed", summary.Indexed),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
		zap.Int("chunks_added", summary.ChunksAdded),
	)
	return summary, nil
}

// processFile walks one file through the per-file state machine. Any failure
// leaves the file's hash-index entry untouched so a future run retries the
// whole file.
func (o *Orchestrator) processFile(
	ctx context.Context,
	source core.DocumentSource,
	col core.Collection,
	f models.SourceFile,
	existing map[string]struct{},
	force bool,
) models.FileResult {
	fail := func(reason string) models.FileResult {
		return models.FileResult{File: f.ID, Status: models.FileStatusFailed, Reason: reason}
	}

	raw, err := source.Read(ctx, f.ID)
	if err != nil {
		return fail(fmt.Sprintf("read: %v", err))
	}
	digest := hashing.DigestBytes(raw)

	if !force && !o.tracker.NeedsProcessing(f.ID, digest) {
		return models.FileResult{File: f.ID, Status: models.FileStatusSkipped}
	}

	text, err := o.extractor.ExtractText(ctx, raw, f.ContentType)
	if err != nil {
		return fail(fmt.Sprintf("extract: %v", err))
	}
	if strings.TrimSpace(text) == "" {
		return fail("empty extracted text")
	}

	chunks := o.splitter.Split(cleanText(text))
	o.logger.Debug("chunks generated", zap.String("file", f.ID), zap.Int("chunks", len(chunks)))

	batch := newBatchAccumulator(o.batchSize, func(ctx context.Context, records []models.ChunkRecord) error {
		return o.manager.Upsert(ctx, col, records)
	}, o.logger)

	for _, chunk := range chunks {
		id := hashing.ChunkID(chunk, f.ID)
		if _, ok := existing[id]; ok {
			continue
		}

		emb, ok := o.cache.Get(id)
		if !ok {
			vecs, err := o.embedder.EmbedTexts(ctx, []string{chunk})
			if err != nil {
				return fail(fmt.Sprintf("embed: %v", err))
			}
			if len(vecs) != 1 || len(vecs[0]) == 0 {
				return fail("embedder returned no vector")
			}
			emb = vecs[0]
			if err := o.cache.Put(id, emb); err != nil {
				// A failed cache write only costs a recomputation next run.
				o.logger.Warn("embedding cache write failed", zap.String("chunk_id", id), zap.Error(err))
			}
		}

		batch.Add(ctx, models.ChunkRecord{ID: id, Text: chunk, Embedding: emb, Source: f.ID})
	}

	batch.Drain(ctx)

	if n := batch.FailedBatches(); n > 0 {
		// The digest stays uncommitted so the next run retries the file.
		return fail(fmt.Sprintf("%d batch upsert(s) failed", n))
	}

	if err := o.tracker.Commit(f.ID, digest); err != nil {
		return fail(fmt.Sprintf("commit digest: %v", err))
	}
	return models.FileResult{File: f.ID, Status: models.FileStatusIndexed, Chunks: batch.Added()}
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// cleanText normalises extracted text before splitting: non-breaking spaces
// become spaces and whitespace runs collapse to one.
func cleanText(text string) string {
	text = strings.ReplaceAll(text, " ", " ")
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
}
