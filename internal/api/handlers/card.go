package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/hearthstone-card-explorer/internal/api/response"
	"github.com/ramonehamilton/hearthstone-card-explorer/internal/cards"
	"github.com/ramonehamilton/hearthstone-card-explorer/internal/cards/facets"
	"github.com/ramonehamilton/hearthstone-card-explorer/internal/cards/query"
	"github.com/ramonehamilton/hearthstone-card-explorer/internal/catalog"
	"github.com/ramonehamilton/hearthstone-card-explorer/internal/interaction"
)

// Catalog is the subset of catalog.Service used by the handlers.
type Catalog interface {
	Search(ctx context.Context, c query.Criteria) (*catalog.SearchResult, error)
	Facets(ctx context.Context) (*facets.FacetSet, error)
	Card(ctx context.Context, id string) (*catalog.CardView, error)
	Compare(a, b *cards.Card) (*interaction.Result, error)
	CompareByID(ctx context.Context, idA, idB string) (*interaction.Result, error)
	Image(ctx context.Context, id string) (string, error)
}

// CardHandler handles card-related API requests.
type CardHandler struct {
	catalog Catalog
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(catalog Catalog) *CardHandler {
	return &CardHandler{catalog: catalog}
}

// SearchCards searches for cards matching the query string filters.
func (h *CardHandler) SearchCards(w http.ResponseWriter, r *http.Request) {
	criteria := query.CriteriaFromValues(r.URL.Query())
	if err := validateStruct(criteria); err != nil {
		response.BadRequest(w, err)
		return
	}

	result, err := h.catalog.Search(r.Context(), criteria)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, result.Cards)
}

// GetParams returns the distinct values for every filter.
func (h *CardHandler) GetParams(w http.ResponseWriter, r *http.Request) {
	fs, err := h.catalog.Facets(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, fs)
}

// GetCard returns a card by id, cardId or dbfId.
func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	cardID := chi.URLParam(r, "cardID")
	if cardID == "" {
		response.BadRequest(w, errors.New("card ID is required"))
		return
	}

	card, err := h.catalog.Card(r.Context(), cardID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, card)
}

// GetCardImage serves the cached render of a card.
func (h *CardHandler) GetCardImage(w http.ResponseWriter, r *http.Request) {
	cardID := chi.URLParam(r, "cardID")
	if cardID == "" {
		response.BadRequest(w, errors.New("card ID is required"))
		return
	}

	path, err := h.catalog.Image(r.Context(), cardID)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	http.ServeFile(w, r, path)
}
