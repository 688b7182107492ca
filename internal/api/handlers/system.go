package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/ramonehamilton/hearthstone-card-explorer/internal/api/response"
	"github.com/ramonehamilton/hearthstone-card-explorer/internal/metrics"
	"github.com/ramonehamilton/hearthstone-card-explorer/internal/version"
)

// SystemHandler handles health and status requests.
type SystemHandler struct {
	ping  func(ctx context.Context) error
	stats *metrics.CatalogMetrics
}

// NewSystemHandler creates a SystemHandler. ping and stats may be nil.
func NewSystemHandler(ping func(ctx context.Context) error, stats *metrics.CatalogMetrics) *SystemHandler {
	return &SystemHandler{ping: ping, stats: stats}
}

// Health reports that the process is up. It does not touch the database.
func (h *SystemHandler) Health(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Ready reports whether the graph database answers.
func (h *SystemHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			response.ServiceUnavailable(w, err)
			return
		}
	}
	response.Success(w, map[string]string{"status": "ready"})
}

// GetStats returns in-process latency and counter statistics.
func (h *SystemHandler) GetStats(w http.ResponseWriter, _ *http.Request) {
	if h.stats == nil {
		response.Success(w, &metrics.CatalogStats{})
		return
	}
	response.Success(w, h.stats.GetStats())
}

// GetVersion returns the application version.
func (h *SystemHandler) GetVersion(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"version": version.Version,
		"service": "card-explorer-api",
	})
}
