// Package handler maps HTTP requests onto cache lookups, upstream
// calls, and the word-count pipeline.
package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	json "github.com/goccy/go-json"
	"golang.org/x/sync/singleflight"

	"ecfr-proxy/internal/cache"
	"ecfr-proxy/internal/config"
	"ecfr-proxy/internal/ecfr"
	apperrors "ecfr-proxy/internal/errors"
)

// UpstreamClient is the slice of the eCFR client the handlers need.
type UpstreamClient interface {
	Titles(ctx context.Context) ([]ecfr.Title, error)
	Agencies(ctx context.Context) ([]ecfr.Agency, error)
	FullTitleXML(ctx context.Context, date string, title int) (io.ReadCloser, error)
	Structure(ctx context.Context, date string, title int) (*ecfr.StructureNode, error)
	SearchResults(ctx context.Context, query url.Values) ([]byte, error)
	SearchCount(ctx context.Context, query url.Values) ([]byte, error)
}

// Handler owns the caches and serves every /api route. Caches are
// injected so tests run against a fresh set.
type Handler struct {
	cfg    *config.Config
	client UpstreamClient

	titles      cache.Cache[[]ecfr.Title]
	agencies    cache.Cache[[]ecfr.Agency]
	wordCounts  cache.Cache[int]
	suggestions cache.Cache[[]string]

	// Coalesces concurrent word-count computations for the same title
	// so one upstream XML fetch serves all waiters.
	sf singleflight.Group
}

// Caches groups the cache namespaces injected into the handler.
type Caches struct {
	Titles      cache.Cache[[]ecfr.Title]
	Agencies    cache.Cache[[]ecfr.Agency]
	WordCounts  cache.Cache[int]
	Suggestions cache.Cache[[]string]
}

// New creates a handler.
func New(cfg *config.Config, client UpstreamClient, caches Caches) *Handler {
	return &Handler{
		cfg:         cfg,
		client:      client,
		titles:      caches.Titles,
		agencies:    caches.Agencies,
		wordCounts:  caches.WordCounts,
		suggestions: caches.Suggestions,
	}
}

// writeJSON encodes the response as JSON with the given status code.
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("response encode failed", "error", err)
	}
}

// writeError converts any error into the uniform JSON error body.
// Unclassified errors surface as the generic upstream failure.
func writeError(w http.ResponseWriter, route string, err error) {
	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		appErr = apperrors.ErrUpstreamUnavailable.WithCause(err)
	}
	slog.Error("request failed", "route", route, "error", appErr)
	appErr.WriteResponse(w)
}

// requireGet rejects non-GET methods. OPTIONS never reaches handlers;
// the CORS middleware answers it.
func requireGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet {
		apperrors.ErrMethodNotAllowed.WriteResponse(w)
		return false
	}
	return true
}
