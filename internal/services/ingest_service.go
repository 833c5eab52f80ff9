package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/oluseyi-dev/docdex/internal/core"
	"github.com/oluseyi-dev/docdex/internal/core/ingestion_engine"
	"github.com/oluseyi-dev/docdex/internal/models"
	"go.uber.org/zap"
)

// IngestService exposes the two public indexing operations, Load and Reload,
// and owns the single ingestion worker. One worker over a bounded job queue
// enforces the one-ingestion-process-at-a-time model the caches rely on: the
// HTTP API only ever enqueues.
type IngestService struct {
	manager    *ingestion_engine.CollectionManager
	orch       *ingestion_engine.Orchestrator
	source     core.DocumentSource
	collection string
	logger     *zap.Logger

	jobs chan models.RunMode

	mu      sync.Mutex
	lastRun *models.RunSummary
	running bool
}

func NewIngestService(
	manager *ingestion_engine.CollectionManager,
	orch *ingestion_engine.Orchestrator,
	source core.DocumentSource,
	collection string,
	logger *zap.Logger,
) *IngestService {
	return &IngestService{
		manager:    manager,
		orch:       orch,
		source:     source,
		collection: collection,
		logger:     logger,
		jobs:       make(chan models.RunMode, 4),
	}
}

// Start runs the single worker goroutine until ctx is cancelled.
func (s *IngestService) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				s.logger.Info("ingest worker shutting down")
				return
			case mode := <-s.jobs:
				s.setRunning(true)
				summary, err := s.run(ctx, mode)
				s.setRunning(false)
				if err != nil {
					s.logger.Error("ingestion run aborted", zap.String("mode", string(mode)), zap.Error(err))
					continue
				}
				s.setLastRun(summary)
			}
		}
	}()
}

// Enqueue schedules a run. It never blocks the caller: a full queue is
// reported as busy instead.
func (s *IngestService) Enqueue(mode models.RunMode) error {
	select {
	case s.jobs <- mode:
		return nil
	default:
		return fmt.Errorf("ingestion queue full, try again later")
	}
}

// Load ingests the source incrementally, creating the collection if absent.
func (s *IngestService) Load(ctx context.Context) (*models.RunSummary, error) {
	summary, err := s.run(ctx, models.RunModeLoad)
	if err != nil {
		return nil, err
	}
	s.setLastRun(summary)
	return summary, nil
}

// Reload deletes and recreates the collection, then ingests every file from
// scratch. The hash index is deliberately not reset: every file's digest is
// recommitted during the run, so a Load right after a Reload of an unchanged
// folder processes nothing.
func (s *IngestService) Reload(ctx context.Context) (*models.RunSummary, error) {
	summary, err := s.run(ctx, models.RunModeReload)
	if err != nil {
		return nil, err
	}
	s.setLastRun(summary)
	return summary, nil
}

func (s *IngestService) run(ctx context.Context, mode models.RunMode) (*models.RunSummary, error) {
	var (
		col core.Collection
		err error
	)
	switch mode {
	case models.RunModeReload:
		col, err = s.manager.Rebuild(ctx, s.collection)
	default:
		col, err = s.manager.OpenOrCreate(ctx, s.collection)
	}
	if err != nil {
		return nil, err
	}
	return s.orch.Run(ctx, s.source, col, mode)
}

// LastRun returns the summary of the most recent completed run, if any.
func (s *IngestService) LastRun() *models.RunSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun
}

// Running reports whether the worker is mid-run.
func (s *IngestService) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Collections lists the stored collections for the admin API.
func (s *IngestService) Collections(ctx context.Context) ([]models.CollectionInfo, error) {
	return s.manager.List(ctx)
}

func (s *IngestService) setLastRun(summary *models.RunSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastRun = summary
}

func (s *IngestService) setRunning(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = v
}
