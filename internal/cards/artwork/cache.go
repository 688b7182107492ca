package artwork

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// CacheOptions configures the on-disk render cache.
type CacheOptions struct {
	Dir     string        // directory holding cached renders
	MaxSize int64         // total bytes kept on disk (0 = unlimited)
	Timeout time.Duration // per download

	// FetchInterval is the minimum spacing between downloads from the
	// render host. Zero disables rate limiting.
	FetchInterval time.Duration
}

// DefaultCacheOptions stores up to 200 MB under the user cache directory.
func DefaultCacheOptions() CacheOptions {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return CacheOptions{
		Dir:           filepath.Join(dir, "card-explorer", "art"),
		MaxSize:       200 * 1024 * 1024,
		Timeout:       15 * time.Second,
		FetchInterval: 100 * time.Millisecond,
	}
}

// Cache downloads card renders once and serves them from disk, evicting the
// least recently used files when MaxSize is exceeded.
type Cache struct {
	dir        string
	maxSize    int64
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger

	mu       sync.Mutex
	sizes    map[string]int64
	lastUsed map[string]time.Time
}

// NewCache creates the cache directory and indexes files already in it.
func NewCache(opts CacheOptions, logger *zap.Logger) (*Cache, error) {
	if opts.Dir == "" {
		return nil, fmt.Errorf("cache directory is required")
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	limit := rate.Inf
	if opts.FetchInterval > 0 {
		limit = rate.Every(opts.FetchInterval)
	}

	c := &Cache{
		dir:        opts.Dir,
		maxSize:    opts.MaxSize,
		httpClient: &http.Client{Timeout: opts.Timeout},
		limiter:    rate.NewLimiter(limit, 1),
		logger:     logger,
		sizes:      make(map[string]int64),
		lastUsed:   make(map[string]time.Time),
	}

	if err := c.scan(); err != nil {
		return nil, fmt.Errorf("failed to scan cache directory: %w", err)
	}
	return c, nil
}

// Get returns the local path of the image at url, downloading it first when
// it is not cached.
func (c *Cache) Get(ctx context.Context, url string) (string, error) {
	if url == "" {
		return "", fmt.Errorf("image URL is empty")
	}

	path := filepath.Join(c.dir, cacheKey(url))

	c.mu.Lock()
	if _, ok := c.sizes[path]; ok {
		c.lastUsed[path] = time.Now()
		c.mu.Unlock()
		return path, nil
	}
	c.mu.Unlock()

	return c.download(ctx, url, path)
}

func (c *Cache) download(ctx context.Context, url, path string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download image: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", &FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	tmp, err := os.CreateTemp(c.dir, "download-*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	size, err := io.Copy(tmp, resp.Body)
	if err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("failed to save image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureSpace(size); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("failed to ensure cache space: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("failed to move cached file: %w", err)
	}

	c.sizes[path] = size
	c.lastUsed[path] = time.Now()
	c.logger.Debug("Cached card render", zap.String("url", url), zap.Int64("bytes", size))

	return path, nil
}

// ensureSpace evicts least recently used files until needed bytes fit.
// Must be called with c.mu held.
func (c *Cache) ensureSpace(needed int64) error {
	if c.maxSize == 0 {
		return nil
	}

	var current int64
	for _, size := range c.sizes {
		current += size
	}
	if current+needed <= c.maxSize {
		return nil
	}

	paths := make([]string, 0, len(c.sizes))
	for path := range c.sizes {
		paths = append(paths, path)
	}
	sort.Slice(paths, func(i, j int) bool {
		return c.lastUsed[paths[i]].Before(c.lastUsed[paths[j]])
	})

	for _, path := range paths {
		if current+needed <= c.maxSize {
			break
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to evict cached file: %w", err)
		}
		current -= c.sizes[path]
		delete(c.sizes, path)
		delete(c.lastUsed, path)
	}
	return nil
}

// Clear removes every cached render.
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for path := range c.sizes {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove cached file: %w", err)
		}
	}
	c.sizes = make(map[string]int64)
	c.lastUsed = make(map[string]time.Time)
	return nil
}

// CacheStats describes the cache contents.
type CacheStats struct {
	Files   int    `json:"files"`
	Bytes   int64  `json:"bytes"`
	MaxSize int64  `json:"max_size"`
	Dir     string `json:"dir"`
}

// Stats returns the current file count and size.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total int64
	for _, size := range c.sizes {
		total += size
	}
	return CacheStats{Files: len(c.sizes), Bytes: total, MaxSize: c.maxSize, Dir: c.dir}
}

func (c *Cache) scan() error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) == ".tmp" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		path := filepath.Join(c.dir, entry.Name())
		c.sizes[path] = info.Size()
		c.lastUsed[path] = info.ModTime()
	}
	return nil
}

func cacheKey(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:]) + ".png"
}

// FetchError reports a non-200 answer from the render host.
type FetchError struct {
	URL        string
	StatusCode int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to download image %s: status %d", e.URL, e.StatusCode)
}
