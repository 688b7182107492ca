package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	neo4jconfig "github.com/neo4j/neo4j-go-driver/v5/neo4j/config"
	"go.uber.org/zap"
)

// Config holds Neo4j connection settings.
type Config struct {
	// URI is the bolt/neo4j URI, e.g. neo4j+s://xxxx.databases.neo4j.io.
	URI      string
	Username string
	Password string

	// Database selects a named database. Empty uses the server default.
	Database string

	// MaxConnectionPoolSize caps open connections per host.
	// Default: 50
	MaxConnectionPoolSize int

	// ConnectionAcquisitionTimeout bounds waiting for a pooled connection.
	// Default: 30 seconds
	ConnectionAcquisitionTimeout time.Duration

	// QueryTimeout is applied to every Execute call that has no earlier deadline.
	// Default: 15 seconds
	QueryTimeout time.Duration
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig(uri, username, password string) *Config {
	return &Config{
		URI:                          uri,
		Username:                     username,
		Password:                     password,
		MaxConnectionPoolSize:        50,
		ConnectionAcquisitionTimeout: 30 * time.Second,
		QueryTimeout:                 15 * time.Second,
	}
}

// Neo4jExecutor runs read queries in short-lived sessions on a shared driver.
type Neo4jExecutor struct {
	driver       neo4j.DriverWithContext
	database     string
	queryTimeout time.Duration
	logger       *zap.Logger
}

// Open creates the driver and verifies connectivity.
func Open(ctx context.Context, cfg *Config, logger *zap.Logger) (*Neo4jExecutor, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.URI == "" {
		return nil, fmt.Errorf("neo4j URI is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	auth := neo4j.NoAuth()
	if cfg.Username != "" {
		auth = neo4j.BasicAuth(cfg.Username, cfg.Password, "")
	}

	driver, err := neo4j.NewDriverWithContext(cfg.URI, auth, func(c *neo4jconfig.Config) {
		if cfg.MaxConnectionPoolSize > 0 {
			c.MaxConnectionPoolSize = cfg.MaxConnectionPoolSize
		}
		if cfg.ConnectionAcquisitionTimeout > 0 {
			c.ConnectionAcquisitionTimeout = cfg.ConnectionAcquisitionTimeout
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		if closeErr := driver.Close(ctx); closeErr != nil {
			return nil, fmt.Errorf("failed to close driver after connectivity error: %w (original error: %v)", closeErr, err)
		}
		return nil, fmt.Errorf("failed to verify neo4j connectivity: %w", err)
	}

	logger.Info("Connected to graph database",
		zap.String("uri", cfg.URI),
		zap.String("database", cfg.Database))

	return &Neo4jExecutor{
		driver:       driver,
		database:     cfg.Database,
		queryTimeout: cfg.QueryTimeout,
		logger:       logger,
	}, nil
}

// Execute runs query in a read session and collects all records.
func (e *Neo4jExecutor) Execute(ctx context.Context, query string, params map[string]any) ([]Row, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline && e.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.queryTimeout)
		defer cancel()
	}

	session := e.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: e.database,
	})
	defer func() {
		if err := session.Close(ctx); err != nil {
			e.logger.Warn("Failed to close graph session", zap.Error(err))
		}
	}()

	result, err := session.Run(ctx, query, params)
	if err != nil {
		return nil, fmt.Errorf("run query: %w", err)
	}

	records, err := result.Collect(ctx)
	if err != nil {
		return nil, fmt.Errorf("collect records: %w", err)
	}

	rows := make([]Row, 0, len(records))
	for _, record := range records {
		rows = append(rows, rowFromValues(record.Keys, record.Values))
	}
	return rows, nil
}

// Ping verifies the database is reachable.
func (e *Neo4jExecutor) Ping(ctx context.Context) error {
	return e.driver.VerifyConnectivity(ctx)
}

// Close releases the driver and its connection pool.
func (e *Neo4jExecutor) Close(ctx context.Context) error {
	if e.driver == nil {
		return nil
	}
	return e.driver.Close(ctx)
}

// rowFromValues flattens driver values so callers only see maps, lists and
// scalars. Nodes and relationships are reduced to their properties.
func rowFromValues(keys []string, values []any) Row {
	row := make(Row, len(keys))
	for i, key := range keys {
		if i < len(values) {
			row[key] = plainValue(values[i])
		}
	}
	return row
}

func plainValue(v any) any {
	switch val := v.(type) {
	case neo4j.Node:
		return plainValue(val.Props)
	case neo4j.Relationship:
		return plainValue(val.Props)
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = plainValue(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = plainValue(item)
		}
		return out
	default:
		return v
	}
}
