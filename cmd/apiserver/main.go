// Package main provides the card explorer REST API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ramonehamilton/hearthstone-card-explorer/internal/api"
	"github.com/ramonehamilton/hearthstone-card-explorer/internal/app"
	"github.com/ramonehamilton/hearthstone-card-explorer/internal/config"
	"github.com/ramonehamilton/hearthstone-card-explorer/internal/logging"
	"github.com/ramonehamilton/hearthstone-card-explorer/internal/version"
)

var (
	configPath = flag.String("config", "", "Config file path (default: ~/.card-explorer/config.toml)")
	port       = flag.Int("port", 0, "API server port (overrides config and PORT)")
	neo4jURI   = flag.String("neo4j-uri", "", "Neo4j URI (overrides config and NEO4J_URI)")
	logLevel   = flag.String("log-level", "", "Log level: debug, info, warn, error")
	artCache   = flag.String("art-cache", "", "Directory for cached card renders (enables /api/cards/{id}/image)")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *neo4jURI != "" {
		cfg.Graph.URI = *neo4jURI
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if *artCache != "" {
		cfg.Artwork.CacheDir = *artCache
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Error("API server failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	logger.Info("Starting card explorer API",
		zap.String("version", version.Version),
		zap.String("neo4j", cfg.Graph.URI),
		zap.Int("port", cfg.Server.Port))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	rt, err := app.Open(connectCtx, cfg, logger)
	cancel()
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rt.Close(closeCtx); err != nil {
			logger.Warn("Error closing graph database", zap.Error(err))
		}
	}()

	go func() {
		if err := rt.WatchReference(ctx); err != nil {
			logger.Warn("Artwork reference watcher stopped", zap.Error(err))
		}
	}()

	requestTimeout, err := cfg.GetRequestTimeout()
	if err != nil {
		return fmt.Errorf("invalid request timeout: %w", err)
	}

	server := api.NewServer(&api.Config{
		Port:           cfg.Server.Port,
		CORSOrigins:    cfg.Server.CORSOrigins,
		RequestTimeout: requestTimeout,
	}, api.Dependencies{
		Catalog:   rt.Catalog,
		Ping:      rt.Ping,
		Stats:     rt.Stats,
		Collector: rt.Collector,
		Logger:    logger,
	})

	if err := server.Start(); err != nil {
		return fmt.Errorf("failed to start API server: %w", err)
	}
	logger.Info("API server running", zap.String("url", fmt.Sprintf("http://localhost:%d", cfg.Server.Port)))

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("API server stopped")
	return nil
}
