package server

import (
	"net/http"

	"staticd/config"
	"staticd/content"
	"staticd/handlers"
)

// registerRoutes attaches all handlers to the given mux.
func registerRoutes(mux *http.ServeMux, res *content.Resolver, classify handlers.Classifier, cfg *config.Config, bw *handlers.BandwidthManager, tmpl *Templates) {
	// Chroma stylesheet for rendered README code blocks (generated once).
	mux.HandleFunc("/highlight.css", handlers.HighlightCSSHandler(cfg.Theme))

	// Aggregate transfer statistics (JSON).
	mux.HandleFunc("/api/stats", handlers.StatsHandler())

	// Everything else: files and directory listings (bandwidth-limited).
	opts := handlers.ListingOptions{
		Title:      cfg.Title,
		RenderDocs: cfg.RenderDocs,
	}
	mux.Handle("/", bw.Wrap(handlers.ServeHandler(res, classify, opts, tmpl)))
}
