package facets

import (
	"context"
	"sync"
	"time"
)

// CacheObserver is told whether each lookup was served from cache.
type CacheObserver interface {
	ObserveCache(hit bool)
}

// Cache keeps the last FacetSet for a fixed TTL. Facet values only change
// when the catalog is reloaded, so one aggregation serves many page loads.
type Cache struct {
	source   Source
	ttl      time.Duration
	observer CacheObserver
	now      func() time.Time

	mu        sync.Mutex
	facets    *FacetSet
	expiresAt time.Time
}

// NewCache wraps source. A non-positive ttl disables caching.
func NewCache(source Source, ttl time.Duration, observer CacheObserver) *Cache {
	return &Cache{
		source:   source,
		ttl:      ttl,
		observer: observer,
		now:      time.Now,
	}
}

// Aggregate returns a copy of the cached facets or refreshes them from the
// source. Failed refreshes are not cached.
func (c *Cache) Aggregate(ctx context.Context) (*FacetSet, error) {
	if c.ttl <= 0 {
		return c.source.Aggregate(ctx)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.facets != nil && c.now().Before(c.expiresAt) {
		c.observe(true)
		return c.facets.Clone(), nil
	}
	c.observe(false)

	facets, err := c.source.Aggregate(ctx)
	if err != nil {
		return nil, err
	}
	c.facets = facets
	c.expiresAt = c.now().Add(c.ttl)
	return facets.Clone(), nil
}

// Invalidate drops the cached value.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.facets = nil
	c.expiresAt = time.Time{}
}

func (c *Cache) observe(hit bool) {
	if c.observer != nil {
		c.observer.ObserveCache(hit)
	}
}
