package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"ecfr-proxy/internal/ecfr"
	apperrors "ecfr-proxy/internal/errors"
	"ecfr-proxy/internal/metrics"
	"ecfr-proxy/internal/wordcount"
)

// HandleWordCount serves GET /api/wordcount/{titleNumber}.
//
// Reserved titles answer 0 with no fetch. A cached count answers
// immediately; otherwise the full-title XML is streamed through the
// counter at the title's latest issue date and the result cached.
func (h *Handler) HandleWordCount(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	param := strings.TrimPrefix(r.URL.Path, "/api/wordcount/")
	number, err := parseTitleNumber(param)
	if err != nil {
		writeError(w, "/api/wordcount", err)
		return
	}
	key := strconv.Itoa(number)

	title, err := h.titleByNumber(r.Context(), number)
	if err != nil {
		writeError(w, "/api/wordcount", err)
		return
	}

	if title.IsReserved() {
		writeJSON(w, http.StatusOK, map[string]any{"title": key, "wordCount": 0})
		return
	}

	if count, ok := h.wordCounts.Get(r.Context(), key); ok {
		writeJSON(w, http.StatusOK, map[string]any{"title": key, "wordCount": count})
		return
	}

	count, err := h.computeWordCount(r.Context(), key, title)
	if err != nil {
		writeError(w, "/api/wordcount", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"title": key, "wordCount": count})
}

// computeWordCount fetches and counts the title's XML, coalescing
// concurrent requests for the same title into one fetch.
func (h *Handler) computeWordCount(ctx context.Context, key string, title ecfr.Title) (int, error) {
	v, err, _ := h.sf.Do("wordcount:"+key, func() (interface{}, error) {
		// The fetch survives a client disconnect: a half-downloaded
		// multi-megabyte title is pure waste, and the count is about
		// to be cached for every later caller. The fetch still runs
		// under its own timeout.
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.cfg.UpstreamTimeoutDuration())
		defer cancel()

		start := time.Now()
		rc, err := h.client.FullTitleXML(fetchCtx, title.LatestIssueDate, title.Number)
		if err != nil {
			return 0, apperrors.ErrUpstreamUnavailable.WithCause(err)
		}
		defer rc.Close()

		// Parse failures degrade to 0 rather than failing the request.
		count := wordcount.CountOrZero(rc, key)
		metrics.WordCountDuration.Observe(time.Since(start).Seconds())

		h.wordCounts.Set(fetchCtx, key, count)
		return count, nil
	})
	if err != nil {
		return 0, err
	}
	return v.(int), nil
}
