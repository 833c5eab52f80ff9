package app

import (
	"context"
	"fmt"

	"github.com/oluseyi-dev/docdex/internal/config"
	"github.com/oluseyi-dev/docdex/internal/core"
	db "github.com/oluseyi-dev/docdex/internal/core/database"
	"github.com/oluseyi-dev/docdex/internal/core/ingestion_engine"
	"github.com/oluseyi-dev/docdex/internal/core/llm"
	objectclient "github.com/oluseyi-dev/docdex/internal/core/object-client"
	"github.com/oluseyi-dev/docdex/internal/core/source"
	"github.com/oluseyi-dev/docdex/internal/core/splitter"
	"github.com/oluseyi-dev/docdex/internal/services"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// App wires the collaborators into the running service: vector store,
// embedding provider, document source, ingestion pipeline, admin API.
type App struct {
	store    *db.VectorStoreClient
	embedder *llm.GeminiEmbedder
	Ingest   *services.IngestService
	Server   *Server
	logger   *zap.Logger
}

func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	store, err := db.NewVectorStoreClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("init vector store: %w", err)
	}
	logger.Info("vector store initialized and ready")

	embedder, err := llm.NewGeminiEmbedder(ctx, cfg.AIAPIKey, cfg.EmbedModel)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("init embedder: %w", err)
	}

	var (
		docSource core.DocumentSource
		docSvc    *services.DocumentService
	)
	switch cfg.SourceKind {
	case "s3":
		objClient, err := objectclient.NewS3Client(ctx, cfg)
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("init object client: %w", err)
		}
		docSource = source.NewS3Source(objClient, cfg.BucketName, cfg.BucketPrefix, cfg.Extensions)
		docSvc = services.NewDocumentService(objClient, cfg.BucketName, cfg.BucketPrefix)
		logger.Info("using s3 document source",
			zap.String("bucket", cfg.BucketName), zap.String("prefix", cfg.BucketPrefix))
	default:
		docSource = source.NewFilesystemSource(cfg.DocsPath, cfg.Extensions)
		logger.Info("using filesystem document source", zap.String("folder", cfg.DocsPath))
	}

	cache, err := ingestion_engine.NewEmbeddingCache(cfg.CachePath, logger)
	if err != nil {
		store.Close()
		return nil, err
	}
	tracker := ingestion_engine.LoadHashIndex(cfg.CachePath, logger)

	manager := ingestion_engine.NewCollectionManager(store, logger)
	orch := ingestion_engine.NewOrchestrator(
		manager,
		tracker,
		cache,
		ingestion_engine.NewDocconvExtractor(false, logger),
		splitter.NewRecursive(cfg.ChunkSize, cfg.ChunkOverlap),
		embedder,
		cfg.BatchSize,
		logger,
	)

	ingestSvc := services.NewIngestService(manager, orch, docSource, cfg.Collection, logger)
	server := NewServer(cfg, ingestSvc, docSvc, logger)

	return &App{
		store:    store,
		embedder: embedder,
		Ingest:   ingestSvc,
		Server:   server,
		logger:   logger,
	}, nil
}

// Run starts the ingestion worker and the HTTP server, blocking until ctx is
// cancelled or the server fails.
func (a *App) Run(ctx context.Context) error {
	a.Ingest.Start(ctx)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.Server.Start()
	})
	g.Go(func() error {
		<-gctx.Done()
		return a.Server.Shutdown(context.Background())
	})
	return g.Wait()
}

func (a *App) Close() {
	if a.embedder != nil {
		_ = a.embedder.Close()
	}
	if a.store != nil {
		_ = a.store.Close()
	}
}
