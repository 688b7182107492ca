package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ramonehamilton/hearthstone-card-explorer/internal/api/response"
	"github.com/ramonehamilton/hearthstone-card-explorer/internal/cards"
)

// CompareRequest names the two cards to compare, either inline or by id.
type CompareRequest struct {
	A   *cards.Card `json:"a" validate:"required_without=AID"`
	B   *cards.Card `json:"b" validate:"required_without=BID"`
	AID string      `json:"aId" validate:"max=64"`
	BID string      `json:"bId" validate:"max=64"`
}

// CompareHandler handles card comparison requests.
type CompareHandler struct {
	catalog Catalog
}

// NewCompareHandler creates a new CompareHandler.
func NewCompareHandler(catalog Catalog) *CompareHandler {
	return &CompareHandler{catalog: catalog}
}

// Compare analyzes card a against card b.
func (h *CompareHandler) Compare(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if err := validateStruct(req); err != nil {
		response.BadRequest(w, err)
		return
	}

	if req.A == nil && req.B == nil {
		result, err := h.catalog.CompareByID(r.Context(), req.AID, req.BID)
		if err != nil {
			writeError(w, err)
			return
		}
		response.Success(w, result)
		return
	}

	// Inline cards take precedence over ids.
	a, b := req.A, req.B
	if a == nil {
		view, err := h.catalog.Card(r.Context(), req.AID)
		if err != nil {
			writeError(w, err)
			return
		}
		a = view.Card
	}
	if b == nil {
		view, err := h.catalog.Card(r.Context(), req.BID)
		if err != nil {
			writeError(w, err)
			return
		}
		b = view.Card
	}

	result, err := h.catalog.Compare(a, b)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, result)
}
