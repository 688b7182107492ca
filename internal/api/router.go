package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/hearthstone-card-explorer/internal/api/handlers"
)

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	systemHandler := handlers.NewSystemHandler(s.ping, s.stats)

	s.router.Route("/api", func(r chi.Router) {
		// System routes
		r.Get("/health", systemHandler.Health)
		r.Get("/ready", systemHandler.Ready)
		r.Get("/stats", systemHandler.GetStats)
		r.Get("/version", systemHandler.GetVersion)

		if s.catalog == nil {
			return
		}

		// Card routes
		cardHandler := handlers.NewCardHandler(s.catalog)
		r.Route("/cards", func(r chi.Router) {
			r.Get("/", cardHandler.SearchCards)
			r.Get("/{cardID}", cardHandler.GetCard)
			r.Get("/{cardID}/image", cardHandler.GetCardImage)
		})
		r.Get("/params", cardHandler.GetParams)

		// Comparison routes
		compareHandler := handlers.NewCompareHandler(s.catalog)
		r.Post("/compare", compareHandler.Compare)
	})

	if s.collector != nil {
		s.router.Handle("/metrics", s.collector.Handler())
	}
}
