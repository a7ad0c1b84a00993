package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ecfr-proxy/internal/handler"
	"ecfr-proxy/internal/middleware"
)

func registerRoutes(mux *http.ServeMux, h *handler.Handler, limiter *middleware.ConcurrencyLimiter) {
	// --- Metadata ---
	mux.HandleFunc("/api/titles", h.HandleTitles)
	mux.HandleFunc("/api/agencies", h.HandleAgencies)

	// --- Word counts (full-title XML downloads, so concurrency-capped) ---
	mux.HandleFunc("/api/wordcount/", limiter.Limit(h.HandleWordCount))

	// --- Agency section listings ---
	mux.HandleFunc("/api/test-agency-sections/", h.HandleAgencySections)

	// --- Search passthrough + local suggestions ---
	mux.HandleFunc("/api/search", h.HandleSearch)
	mux.HandleFunc("/api/search/count", h.HandleSearchCount)
	mux.HandleFunc("/api/search/suggestions", h.HandleSuggestions)

	// --- Health, metrics ---
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	mux.Handle("/metrics", promhttp.Handler())
}
