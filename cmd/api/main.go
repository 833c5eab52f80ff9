package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/oluseyi-dev/docdex/internal/app"
	"github.com/oluseyi-dev/docdex/internal/config"
	"go.uber.org/zap"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle SIGINT/SIGTERM for graceful shutdown
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		<-c
		cancel()
	}()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	cfg := config.LoadConfig()
	application, err := app.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("startup failed", zap.Error(err))
	}
	defer application.Close()

	logger.Info("docdex is running",
		zap.String("collection", cfg.Collection),
		zap.String("source", cfg.SourceKind),
	)
	if err := application.Run(ctx); err != nil {
		logger.Fatal("runtime failure", zap.Error(err))
	}
	logger.Info("shutdown complete")
}
