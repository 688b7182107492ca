package handlers

import (
	"errors"
	"net/http"

	"github.com/ramonehamilton/hearthstone-card-explorer/internal/api/response"
	"github.com/ramonehamilton/hearthstone-card-explorer/internal/cards/artwork"
	"github.com/ramonehamilton/hearthstone-card-explorer/internal/catalog"
	"github.com/ramonehamilton/hearthstone-card-explorer/internal/graph"
	"github.com/ramonehamilton/hearthstone-card-explorer/internal/interaction"
)

// writeError maps catalog errors to HTTP statuses. Database failures are
// never reported as an empty result.
func writeError(w http.ResponseWriter, err error) {
	var fetchErr *artwork.FetchError

	switch {
	case errors.Is(err, graph.ErrUnavailable):
		response.ServiceUnavailable(w, err)
	case graph.IsExecutorError(err):
		response.BadGateway(w, err)
	case errors.Is(err, catalog.ErrCardNotFound), errors.Is(err, catalog.ErrNoImage):
		response.NotFound(w, err)
	case errors.Is(err, catalog.ErrImagesDisabled):
		response.Error(w, http.StatusNotImplemented, err)
	case errors.Is(err, interaction.ErrMissingCard):
		response.BadRequest(w, err)
	case errors.As(err, &fetchErr):
		if fetchErr.StatusCode == http.StatusNotFound {
			response.NotFound(w, err)
			return
		}
		response.BadGateway(w, err)
	default:
		response.InternalError(w, err)
	}
}
