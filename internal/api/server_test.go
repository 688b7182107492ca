package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/ramonehamilton/hearthstone-card-explorer/internal/catalog"
	"github.com/ramonehamilton/hearthstone-card-explorer/internal/graph"
	"github.com/ramonehamilton/hearthstone-card-explorer/internal/metrics"
)

func fakeExecutor(rows []graph.Row, err error) graph.Executor {
	return graph.ExecutorFunc(func(context.Context, string, map[string]any) ([]graph.Row, error) {
		return rows, err
	})
}

func sampleRows() []graph.Row {
	return []graph.Row{
		{"card": map[string]any{"id": "CS2_182", "name": "Chillwind Yeti", "type": "MINION", "attack": int64(4), "health": int64(5), "cost": int64(4), "set": "CORE"}},
		{"card": map[string]any{"id": "HERO_01", "name": "Garrosh Hellscream", "type": "HERO", "set": "CORE"}},
	}
}

func newTestServer(exec graph.Executor, collector *metrics.Collector) *Server {
	return NewServer(&Config{Port: 3000}, Dependencies{
		Catalog:   catalog.NewService(exec),
		Collector: collector,
		Stats:     metrics.NewCatalogMetrics(),
	})
}

func TestNewServer(t *testing.T) {
	cfg := DefaultConfig()

	server := NewServer(cfg, Dependencies{})

	if server == nil {
		t.Fatal("NewServer returned nil")
	}
	if server.port != cfg.Port {
		t.Errorf("Expected port %d, got %d", cfg.Port, server.port)
	}
}

func TestNewServer_NilConfig(t *testing.T) {
	server := NewServer(nil, Dependencies{})

	if server == nil {
		t.Fatal("NewServer returned nil with nil config")
	}
	if server.Port() != 3000 {
		t.Errorf("Expected default port 3000, got %d", server.Port())
	}
	if server.requestTimeout != 30*time.Second {
		t.Errorf("Expected default timeout 30s, got %v", server.requestTimeout)
	}
}

func TestServer_Shutdown_NotStarted(t *testing.T) {
	server := NewServer(nil, Dependencies{})

	if err := server.Shutdown(context.Background()); err != nil {
		t.Errorf("Expected no error on shutdown of non-started server, got %v", err)
	}
}

func TestServer_Health(t *testing.T) {
	server := NewServer(nil, Dependencies{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"ok":true}` {
		t.Errorf("Expected {\"ok\":true}, got %s", got)
	}
}

func TestServer_Ready(t *testing.T) {
	tests := []struct {
		name       string
		ping       func(context.Context) error
		wantStatus int
	}{
		{"no ping", nil, http.StatusOK},
		{"healthy", func(context.Context) error { return nil }, http.StatusOK},
		{"down", func(context.Context) error { return errors.New("dial tcp: refused") }, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := NewServer(nil, Dependencies{Ping: tt.ping})

			req := httptest.NewRequest(http.MethodGet, "/api/ready", nil)
			rec := httptest.NewRecorder()
			server.Handler().ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, rec.Code)
			}
		})
	}
}

func TestServer_SearchExcludesHeroes(t *testing.T) {
	server := newTestServer(fakeExecutor(sampleRows(), nil), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/cards?q=yeti", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Success bool             `json:"success"`
		Data    []map[string]any `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !body.Success {
		t.Error("Expected success true")
	}
	if len(body.Data) != 1 || body.Data[0]["id"] != "CS2_182" {
		t.Errorf("Expected only the yeti, got %v", body.Data)
	}
}

func TestServer_SearchFailureIsNotEmpty(t *testing.T) {
	server := newTestServer(fakeExecutor(nil, errors.New("connection reset")), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/cards", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Errorf("Expected status 502, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"success":false`) {
		t.Errorf("Expected failure envelope, got %s", rec.Body.String())
	}
}

func TestServer_CompareRequiresJSON(t *testing.T) {
	server := newTestServer(fakeExecutor(nil, nil), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/compare", strings.NewReader(`{"aId":"a","bId":"b"}`))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnsupportedMediaType {
		t.Errorf("Expected status 415, got %d", rec.Code)
	}
}

func TestServer_CORS(t *testing.T) {
	server := NewServer(&Config{Port: 3000, CORSOrigins: []string{"http://localhost:5173"}}, Dependencies{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Expected allowed origin header, got %q", got)
	}
}

func TestServer_Metrics(t *testing.T) {
	collector := metrics.NewCollector("card_explorer")
	server := newTestServer(fakeExecutor(sampleRows(), nil), collector)

	for _, id := range []string{"CS2_182", "EX1_116"} {
		req := httptest.NewRequest(http.MethodGet, "/api/cards/"+id, nil)
		server.Handler().ServeHTTP(httptest.NewRecorder(), req)
	}

	ok := testutil.ToFloat64(collector.HTTPRequests.WithLabelValues("GET", "/api/cards/{cardID}", "200"))
	if ok != 2 {
		t.Errorf("Expected 2 requests recorded under the route pattern, got %v", ok)
	}

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "card_explorer_http_requests_total") {
		t.Error("Expected exported request counter")
	}
}

func TestServer_NoCatalog(t *testing.T) {
	server := NewServer(nil, Dependencies{})

	req := httptest.NewRequest(http.MethodGet, "/api/cards", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}
