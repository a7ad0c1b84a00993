package handler

import (
	"context"
	"net/http"
	"strconv"

	"ecfr-proxy/internal/ecfr"
	apperrors "ecfr-proxy/internal/errors"
)

// Cache keys within the metadata namespace.
const (
	titlesKey   = "titles"
	agenciesKey = "agencies"
)

// cachedTitles returns the titles list, refreshing from upstream on a
// cache miss. The cached list is the single source of truth for
// latest_issue_date; nothing else may supply dates for XML or
// structure URLs.
func (h *Handler) cachedTitles(ctx context.Context) ([]ecfr.Title, error) {
	if titles, ok := h.titles.Get(ctx, titlesKey); ok {
		return titles, nil
	}
	titles, err := h.client.Titles(ctx)
	if err != nil {
		return nil, apperrors.ErrUpstreamUnavailable.WithCause(err)
	}
	h.titles.Set(ctx, titlesKey, titles)
	return titles, nil
}

// cachedAgencies returns the flattened agency list, refreshing from
// upstream on a cache miss.
func (h *Handler) cachedAgencies(ctx context.Context) ([]ecfr.Agency, error) {
	if agencies, ok := h.agencies.Get(ctx, agenciesKey); ok {
		return agencies, nil
	}
	raw, err := h.client.Agencies(ctx)
	if err != nil {
		return nil, apperrors.ErrUpstreamUnavailable.WithCause(err)
	}
	agencies := ecfr.Flatten(raw)
	h.agencies.Set(ctx, agenciesKey, agencies)
	return agencies, nil
}

// titleByNumber resolves a title from cached metadata.
func (h *Handler) titleByNumber(ctx context.Context, number int) (ecfr.Title, error) {
	titles, err := h.cachedTitles(ctx)
	if err != nil {
		return ecfr.Title{}, err
	}
	for _, t := range titles {
		if t.Number == number {
			return t, nil
		}
	}
	return ecfr.Title{}, apperrors.ErrTitleNotFound
}

// agencyBySlug resolves an agency from cached metadata.
func (h *Handler) agencyBySlug(ctx context.Context, slug string) (ecfr.Agency, error) {
	agencies, err := h.cachedAgencies(ctx)
	if err != nil {
		return ecfr.Agency{}, err
	}
	for _, a := range agencies {
		if a.EffectiveSlug() == slug {
			return a, nil
		}
	}
	return ecfr.Agency{}, apperrors.ErrAgencyNotFound
}

// RefreshMetadata re-fetches titles and agencies, replacing the cached
// entries. Used by the background refresher and the startup preload.
func (h *Handler) RefreshMetadata(ctx context.Context) error {
	titles, err := h.client.Titles(ctx)
	if err != nil {
		return apperrors.ErrUpstreamUnavailable.WithCause(err)
	}
	agencies, err := h.client.Agencies(ctx)
	if err != nil {
		return apperrors.ErrUpstreamUnavailable.WithCause(err)
	}
	h.titles.Set(ctx, titlesKey, titles)
	h.agencies.Set(ctx, agenciesKey, ecfr.Flatten(agencies))
	h.suggestions.Flush(ctx)
	return nil
}

// FlushWordCounts drops every cached word count.
func (h *Handler) FlushWordCounts(ctx context.Context) error {
	return h.wordCounts.Flush(ctx)
}

// HandleTitles serves GET /api/titles.
func (h *Handler) HandleTitles(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	titles, err := h.cachedTitles(r.Context())
	if err != nil {
		writeError(w, "/api/titles", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"titles": titles})
}

// HandleAgencies serves GET /api/agencies.
func (h *Handler) HandleAgencies(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	agencies, err := h.cachedAgencies(r.Context())
	if err != nil {
		writeError(w, "/api/agencies", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"agencies": agencies})
}

// parseTitleNumber parses the trailing path parameter of a title route.
func parseTitleNumber(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, apperrors.ErrInvalidRequest.WithMessage("invalid title number")
	}
	return n, nil
}
