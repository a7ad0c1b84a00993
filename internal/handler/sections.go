package handler

import (
	"net/http"
	"strings"

	apperrors "ecfr-proxy/internal/errors"
)

// HandleAgencySections serves GET /api/test-agency-sections/{slug}.
// For each of the agency's chapter references it fetches the title's
// structure tree at the latest issue date and walks it for section
// document URLs.
func (h *Handler) HandleAgencySections(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	slug := strings.TrimPrefix(r.URL.Path, "/api/test-agency-sections/")
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" || strings.Contains(slug, "/") {
		writeError(w, "/api/test-agency-sections", apperrors.ErrAgencyNotFound)
		return
	}

	ctx := r.Context()
	agency, err := h.agencyBySlug(ctx, slug)
	if err != nil {
		writeError(w, "/api/test-agency-sections", err)
		return
	}

	sectionURLs := []string{}
	for _, ref := range agency.CFRReferences {
		if ref.Chapter == "" {
			continue
		}
		title, err := h.titleByNumber(ctx, ref.Title)
		if err != nil {
			// A dangling reference should not sink the whole lookup.
			continue
		}
		root, err := h.client.Structure(ctx, title.LatestIssueDate, title.Number)
		if err != nil {
			writeError(w, "/api/test-agency-sections", apperrors.ErrUpstreamUnavailable.WithCause(err))
			return
		}
		sectionURLs = append(sectionURLs, root.SectionURLs(h.cfg.ECFRBaseURL, ref.Chapter)...)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"agency":      agency.Name,
		"sectionUrls": sectionURLs,
	})
}
