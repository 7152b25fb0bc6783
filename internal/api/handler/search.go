package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hszk-dev/tubeproxy/internal/api/middleware"
	"github.com/hszk-dev/tubeproxy/internal/domain/repository"
	"github.com/hszk-dev/tubeproxy/internal/usecase"
)

// SearchHandler handles search HTTP requests.
type SearchHandler struct {
	svc    usecase.SearchService
	logger *slog.Logger
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(svc usecase.SearchService, logger *slog.Logger) *SearchHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchHandler{svc: svc, logger: logger}
}

// Search handles GET /api/search?query=...
// The query value is passed through verbatim, including an empty string.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	if !values.Has("query") {
		Error(w, http.StatusBadRequest, "invalid_query", "Query parameter 'query' is required")
		return
	}
	query := values.Get("query")

	entities, err := h.svc.Search(r.Context(), query)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	JSON(w, http.StatusOK, entities)
}

func (h *SearchHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	logger := middleware.RequestLogger(r.Context(), h.logger)

	// The timeout middleware answers requests whose deadline expired.
	if errors.Is(r.Context().Err(), context.DeadlineExceeded) {
		logger.Warn("search timed out", slog.Any("error", err))
		return
	}

	switch {
	case errors.Is(err, repository.ErrUpstreamUnavailable),
		errors.Is(err, repository.ErrUpstreamShapeMismatch):
		logger.Warn("search failed upstream", slog.Any("error", err))
		Error(w, http.StatusBadGateway, "upstream_error", "The video platform could not be reached")
	default:
		logger.Error("search failed", slog.Any("error", err))
		Error(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
