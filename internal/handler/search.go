package handler

import (
	"net/http"

	apperrors "ecfr-proxy/internal/errors"
)

// HandleSearch serves GET /api/search as a transparent passthrough:
// the caller's query parameters are forwarded unmodified and the
// upstream JSON body returned unmodified.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	body, err := h.client.SearchResults(r.Context(), r.URL.Query())
	if err != nil {
		writeError(w, "/api/search", apperrors.ErrUpstreamUnavailable.WithCause(err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// HandleSearchCount serves GET /api/search/count, same passthrough
// contract as HandleSearch.
func (h *Handler) HandleSearchCount(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	body, err := h.client.SearchCount(r.Context(), r.URL.Query())
	if err != nil {
		writeError(w, "/api/search/count", apperrors.ErrUpstreamUnavailable.WithCause(err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
