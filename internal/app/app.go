// Package app wires the configured catalog stack shared by the API server and
// the terminal client.
package app

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ramonehamilton/hearthstone-card-explorer/internal/cards/artwork"
	"github.com/ramonehamilton/hearthstone-card-explorer/internal/cards/facets"
	"github.com/ramonehamilton/hearthstone-card-explorer/internal/cards/query"
	"github.com/ramonehamilton/hearthstone-card-explorer/internal/cards/results"
	"github.com/ramonehamilton/hearthstone-card-explorer/internal/catalog"
	"github.com/ramonehamilton/hearthstone-card-explorer/internal/config"
	"github.com/ramonehamilton/hearthstone-card-explorer/internal/graph"
	"github.com/ramonehamilton/hearthstone-card-explorer/internal/metrics"
)

// MetricsNamespace prefixes every exported Prometheus series.
const MetricsNamespace = "card_explorer"

// Runtime holds the services built from one configuration.
type Runtime struct {
	Config    *config.Config
	Logger    *zap.Logger
	Catalog   *catalog.Service
	Stats     *metrics.CatalogMetrics
	Collector *metrics.Collector
	Resolver  *artwork.Resolver

	db *graph.Neo4jExecutor
}

// Open connects to the graph database and builds the catalog on top of it.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Runtime, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	graphCfg, err := GraphConfig(cfg)
	if err != nil {
		return nil, err
	}
	db, err := graph.Open(ctx, graphCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open graph database: %w", err)
	}

	rt, err := Build(db, cfg, logger)
	if err != nil {
		_ = db.Close(ctx)
		return nil, err
	}
	rt.db = db
	return rt, nil
}

// GraphConfig translates the graph section of cfg.
func GraphConfig(cfg *config.Config) (*graph.Config, error) {
	out := graph.DefaultConfig(cfg.Graph.URI, cfg.Graph.Username, cfg.Graph.Password)
	out.Database = cfg.Graph.Database
	if cfg.Graph.MaxConnections > 0 {
		out.MaxConnectionPoolSize = cfg.Graph.MaxConnections
	}

	queryTimeout, err := cfg.GetQueryTimeout()
	if err != nil {
		return nil, fmt.Errorf("invalid query timeout: %w", err)
	}
	out.QueryTimeout = queryTimeout

	connectTimeout, err := cfg.GetConnectTimeout()
	if err != nil {
		return nil, fmt.Errorf("invalid connect timeout: %w", err)
	}
	out.ConnectionAcquisitionTimeout = connectTimeout
	return out, nil
}

// Build assembles the catalog around exec: instrumentation, the optional
// circuit breaker, the facet cache, the artwork resolver and image cache.
func Build(exec graph.Executor, cfg *config.Config, logger *zap.Logger) (*Runtime, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	stats := metrics.NewCatalogMetrics()
	collector := metrics.NewCollector(MetricsNamespace)
	recorder := metrics.Fanout{stats, collector}

	exec = graph.NewInstrumentedExecutor(exec, recorder)
	if cfg.Breaker.Enabled {
		openTimeout, err := cfg.GetBreakerTimeout()
		if err != nil {
			return nil, fmt.Errorf("invalid breaker timeout: %w", err)
		}
		bc := graph.DefaultBreakerConfig("neo4j")
		bc.FailureThreshold = cfg.Breaker.FailureThreshold
		bc.MinRequests = cfg.Breaker.MinRequests
		bc.Timeout = openTimeout
		exec = graph.NewBreakerExecutor(exec, bc, logger)
	}

	ttl, err := cfg.GetCacheTTL()
	if err != nil {
		return nil, fmt.Errorf("invalid cache TTL: %w", err)
	}
	facetSource := facets.NewCache(facets.NewAggregator(exec), ttl, recorder)

	resolver := artwork.NewResolver(artwork.Options{
		Host:   cfg.Artwork.Host,
		Locale: cfg.Artwork.Locale,
		Size:   cfg.Artwork.Size,
	})
	if cfg.Artwork.ReferenceFile != "" {
		if err := resolver.LoadFile(cfg.Artwork.ReferenceFile); err != nil {
			return nil, fmt.Errorf("failed to load artwork reference: %w", err)
		}
		logger.Info("Loaded artwork reference",
			zap.String("path", cfg.Artwork.ReferenceFile),
			zap.Int("entries", resolver.Len()))
	}

	rules := results.DefaultExclusionRules()
	rules.SetNames = cfg.Catalog.ExcludedSets
	rules.SetPrefixes = cfg.Catalog.ExcludedSetPrefixes

	opts := []catalog.Option{
		catalog.WithBuilder(query.NewBuilder(query.WithLimit(cfg.Catalog.ResultLimit))),
		catalog.WithExclusionRules(rules),
		catalog.WithFacetSource(facetSource),
		catalog.WithResolver(resolver),
		catalog.WithRecorder(recorder),
		catalog.WithLogger(logger),
	}

	if strings.TrimSpace(cfg.Artwork.CacheDir) != "" {
		interval, err := cfg.GetFetchInterval()
		if err != nil {
			return nil, fmt.Errorf("invalid fetch interval: %w", err)
		}
		cacheOpts := artwork.DefaultCacheOptions()
		cacheOpts.Dir = cfg.Artwork.CacheDir
		cacheOpts.MaxSize = cfg.Artwork.CacheMaxSize
		cacheOpts.FetchInterval = interval

		images, err := artwork.NewCache(cacheOpts, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create image cache: %w", err)
		}
		opts = append(opts, catalog.WithImageCache(images))
	}

	return &Runtime{
		Config:    cfg,
		Logger:    logger,
		Catalog:   catalog.NewService(exec, opts...),
		Stats:     stats,
		Collector: collector,
		Resolver:  resolver,
	}, nil
}

// WatchReference reloads the artwork reference file on change until ctx is
// done. It returns immediately when watching is not configured.
func (rt *Runtime) WatchReference(ctx context.Context) error {
	path := rt.Config.Artwork.ReferenceFile
	if !rt.Config.Artwork.WatchReference || path == "" {
		return nil
	}
	return artwork.Watch(ctx, path, rt.Resolver, rt.Logger)
}

// Ping checks database connectivity. Without a database it always succeeds.
func (rt *Runtime) Ping(ctx context.Context) error {
	if rt.db == nil {
		return nil
	}
	return rt.db.Ping(ctx)
}

// Close releases the database driver.
func (rt *Runtime) Close(ctx context.Context) error {
	if rt.db == nil {
		return nil
	}
	return rt.db.Close(ctx)
}
