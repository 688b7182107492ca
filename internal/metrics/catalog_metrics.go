package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Operation names used across metrics and logs.
const (
	OpSearch  = "search"
	OpFacets  = "facets"
	OpCard    = "card"
	OpCompare = "compare"
)

// CatalogMetrics tracks in-process statistics for catalog operations.
type CatalogMetrics struct {
	mu        sync.RWMutex
	latencies map[string]*Histogram

	Queries       atomic.Uint64
	QueryErrors   atomic.Uint64
	ExcludedCards atomic.Uint64
	CacheHits     atomic.Uint64
	CacheMisses   atomic.Uint64

	startTime time.Time
}

// NewCatalogMetrics creates a metrics tracker.
func NewCatalogMetrics() *CatalogMetrics {
	return &CatalogMetrics{
		latencies: make(map[string]*Histogram),
		startTime: time.Now(),
	}
}

// ObserveQuery records one executor round trip for op.
func (m *CatalogMetrics) ObserveQuery(op string, d time.Duration, err error) {
	m.histogram(op).Record(d)
	m.Queries.Add(1)
	if err != nil {
		m.QueryErrors.Add(1)
	}
}

// ObserveLatency records a duration for op without counting a query.
func (m *CatalogMetrics) ObserveLatency(op string, d time.Duration) {
	m.histogram(op).Record(d)
}

// AddExcluded counts cards dropped by the exclusion rules.
func (m *CatalogMetrics) AddExcluded(n int) {
	if n > 0 {
		m.ExcludedCards.Add(uint64(n))
	}
}

// ObserveCache counts a facet cache lookup.
func (m *CatalogMetrics) ObserveCache(hit bool) {
	if hit {
		m.CacheHits.Add(1)
		return
	}
	m.CacheMisses.Add(1)
}

func (m *CatalogMetrics) histogram(op string) *Histogram {
	m.mu.RLock()
	h, ok := m.latencies[op]
	m.mu.RUnlock()
	if ok {
		return h
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if h, ok = m.latencies[op]; !ok {
		h = NewHistogram(10000)
		m.latencies[op] = h
	}
	return h
}

// CatalogStats is a point-in-time snapshot of CatalogMetrics.
type CatalogStats struct {
	Latency       map[string]LatencyStats `json:"latency"`
	Queries       uint64                  `json:"queries"`
	QueryErrors   uint64                  `json:"query_errors"`
	ExcludedCards uint64                  `json:"excluded_cards"`
	CacheHitRate  float64                 `json:"cache_hit_rate"` // percentage
	Uptime        string                  `json:"uptime"`
}

// GetStats returns a snapshot of the current statistics.
func (m *CatalogMetrics) GetStats() *CatalogStats {
	m.mu.RLock()
	latency := make(map[string]LatencyStats, len(m.latencies))
	for op, h := range m.latencies {
		latency[op] = h.Snapshot()
	}
	m.mu.RUnlock()

	hits := m.CacheHits.Load()
	misses := m.CacheMisses.Load()
	hitRate := 0.0
	if hits+misses > 0 {
		hitRate = float64(hits) / float64(hits+misses) * 100
	}

	return &CatalogStats{
		Latency:       latency,
		Queries:       m.Queries.Load(),
		QueryErrors:   m.QueryErrors.Load(),
		ExcludedCards: m.ExcludedCards.Load(),
		CacheHitRate:  hitRate,
		Uptime:        time.Since(m.startTime).Round(time.Second).String(),
	}
}

// Recorder is implemented by CatalogMetrics and Collector.
type Recorder interface {
	ObserveQuery(op string, d time.Duration, err error)
	AddExcluded(n int)
	ObserveCache(hit bool)
}

// Fanout sends every observation to all recorders.
type Fanout []Recorder

// ObserveQuery implements Recorder.
func (f Fanout) ObserveQuery(op string, d time.Duration, err error) {
	for _, r := range f {
		r.ObserveQuery(op, d, err)
	}
}

// AddExcluded implements Recorder.
func (f Fanout) AddExcluded(n int) {
	for _, r := range f {
		r.AddExcluded(n)
	}
}

// ObserveCache implements Recorder.
func (f Fanout) ObserveCache(hit bool) {
	for _, r := range f {
		r.ObserveCache(hit)
	}
}
