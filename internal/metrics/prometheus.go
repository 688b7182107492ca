package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the Prometheus series exported on /metrics.
type Collector struct {
	registry *prometheus.Registry

	HTTPRequests  *prometheus.CounterVec
	HTTPDuration  *prometheus.HistogramVec
	QueryDuration *prometheus.HistogramVec
	QueryErrors   *prometheus.CounterVec
	ExcludedCards prometheus.Counter
	FacetCache    *prometheus.CounterVec
}

// NewCollector creates a collector on its own registry so tests can create
// as many as they need.
func NewCollector(namespace string) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		QueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "graph_query_duration_seconds",
			Help:      "Graph query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		QueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "graph_query_errors_total",
			Help:      "Total number of failed graph queries",
		}, []string{"operation"}),
		ExcludedCards: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "excluded_cards_total",
			Help:      "Cards dropped by the result exclusion rules",
		}),
		FacetCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "facet_cache_lookups_total",
			Help:      "Facet cache lookups by result",
		}, []string{"result"}),
	}

	c.registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.QueryDuration,
		c.QueryErrors,
		c.ExcludedCards,
		c.FacetCache,
	)
	return c
}

// Registry returns the collector's registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveQuery records a graph round trip.
func (c *Collector) ObserveQuery(op string, d time.Duration, err error) {
	c.QueryDuration.WithLabelValues(op).Observe(d.Seconds())
	if err != nil {
		c.QueryErrors.WithLabelValues(op).Inc()
	}
}

// ObserveHTTP records a served request.
func (c *Collector) ObserveHTTP(method, route string, status int, d time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// AddExcluded counts excluded cards.
func (c *Collector) AddExcluded(n int) {
	if n > 0 {
		c.ExcludedCards.Add(float64(n))
	}
}

// ObserveCache counts a facet cache lookup.
func (c *Collector) ObserveCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	c.FacetCache.WithLabelValues(result).Inc()
}
