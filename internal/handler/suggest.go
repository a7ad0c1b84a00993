package handler

import (
	"log/slog"
	"net/http"
	"strings"
)

const maxSuggestions = 10

// HandleSuggestions serves GET /api/search/suggestions?query=. Matches
// are case-insensitive substring hits against title and agency display
// names, deduplicated and capped. Failures answer an empty list, never
// an error.
func (h *Handler) HandleSuggestions(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	query := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("query")))
	if query == "" {
		writeJSON(w, http.StatusOK, map[string]any{"suggestions": []string{}})
		return
	}

	ctx := r.Context()
	if cached, ok := h.suggestions.Get(ctx, query); ok {
		writeJSON(w, http.StatusOK, map[string]any{"suggestions": cached})
		return
	}

	results := []string{}
	seen := make(map[string]struct{})
	add := func(name string) bool {
		if name == "" || !strings.Contains(strings.ToLower(name), query) {
			return true
		}
		if _, dup := seen[name]; dup {
			return true
		}
		seen[name] = struct{}{}
		results = append(results, name)
		return len(results) < maxSuggestions
	}

	titles, err := h.cachedTitles(ctx)
	if err != nil {
		slog.Warn("suggestions degraded, titles unavailable", "error", err)
		writeJSON(w, http.StatusOK, map[string]any{"suggestions": []string{}})
		return
	}
	for _, t := range titles {
		if !add(t.Name) {
			break
		}
	}

	if len(results) < maxSuggestions {
		agencies, err := h.cachedAgencies(ctx)
		if err != nil {
			slog.Warn("suggestions degraded, agencies unavailable", "error", err)
			writeJSON(w, http.StatusOK, map[string]any{"suggestions": []string{}})
			return
		}
		for _, a := range agencies {
			name := a.DisplayName
			if name == "" {
				name = a.Name
			}
			if !add(name) {
				break
			}
		}
	}

	h.suggestions.Set(ctx, query, results)
	writeJSON(w, http.StatusOK, map[string]any{"suggestions": results})
}
