package ingestion_engine

import (
	"context"

	"github.com/oluseyi-dev/docdex/internal/models"
	"go.uber.org/zap"
)

// flushFunc forwards one prepared batch to the vector store.
type flushFunc func(ctx context.Context, records []models.ChunkRecord) error

// batchAccumulator buffers prepared chunk records and flushes them once the
// buffer reaches the configured threshold, bounding peak memory and limiting
// the blast radius of a single failed write to one batch.
//
// A failed flush is logged and the batch dropped rather than retried, so one
// bad batch cannot block the remainder of the file; the failure count lets
// the caller withhold the file's digest commit.
type batchAccumulator struct {
	threshold int
	flush     flushFunc
	logger    *zap.Logger

	buf           []models.ChunkRecord
	added         int
	failedBatches int
}

func newBatchAccumulator(threshold int, flush flushFunc, logger *zap.Logger) *batchAccumulator {
	if threshold <= 0 {
		threshold = 16
	}
	return &batchAccumulator{
		threshold: threshold,
		flush:     flush,
		logger:    logger,
		buf:       make([]models.ChunkRecord, 0, threshold),
	}
}

// Add appends record to the buffer, flushing when the threshold is reached.
func (b *batchAccumulator) Add(ctx context.Context, record models.ChunkRecord) {
	b.buf = append(b.buf, record)
	if len(b.buf) >= b.threshold {
		b.doFlush(ctx)
	}
}

// Drain flushes whatever remains at end-of-file processing.
func (b *batchAccumulator) Drain(ctx context.Context) {
	if len(b.buf) > 0 {
		b.doFlush(ctx)
	}
}

// doFlush forwards the buffer and clears it regardless of the outcome.
func (b *batchAccumulator) doFlush(ctx context.Context) {
	n := len(b.buf)
	err := b.flush(ctx, b.buf)
	b.buf = b.buf[:0]
	if err != nil {
		b.failedBatches++
		b.logger.Warn("batch upsert failed, dropping batch", zap.Int("records", n), zap.Error(err))
		return
	}
	b.added += n
}

// Added returns the number of records confirmed flushed so far.
func (b *batchAccumulator) Added() int { return b.added }

// FailedBatches returns how many flushes were dropped on error.
func (b *batchAccumulator) FailedBatches() int { return b.failedBatches }
