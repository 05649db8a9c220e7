package server

import (
	"embed"
	"fmt"
	"log"
	"net/http"
	"time"

	"staticd/config"
	"staticd/content"
	"staticd/handlers"
)

// Run starts the HTTP server with the given configuration.
func Run(cfg *config.Config, templateFS embed.FS) error {
	res, err := content.NewResolver(cfg.Dir)
	if err != nil {
		return fmt.Errorf("document root: %w", err)
	}

	var classify handlers.Classifier
	if cfg.MimeCache {
		cached := content.NewCachedClassifier(cfg.MimeTypesPath, cfg.DefaultType)
		classify = cached
		// The watcher catches rename-over rewrites the per-call stat check
		// can miss; losing it degrades freshness, not correctness.
		if _, err := handlers.WatchMimeTable(cfg.MimeTypesPath, cached); err != nil {
			log.Printf("watcher: could not watch %s (stat-based staleness still applies): %v", cfg.MimeTypesPath, err)
		}
	} else {
		classify = &content.Classifier{TablePath: cfg.MimeTypesPath, Default: cfg.DefaultType}
	}

	tmpl, err := LoadTemplates(templateFS)
	if err != nil {
		return fmt.Errorf("loading templates: %w", err)
	}

	// Open the transfer log before any handler runs.
	handlers.InitStats(cfg.StatsDir)

	// Configure the README renderer with the active Chroma theme. Must be
	// called before any listing request is served.
	handlers.InitRender(cfg.Theme)

	bw := handlers.NewBandwidthManager(cfg.BandwidthLimit)

	mux := http.NewServeMux()
	registerRoutes(mux, res, classify, cfg, bw, tmpl)
	wrapped := securityHeaders(mux)

	addr := fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	logStartup(cfg, res.Root(), addr)

	srv := &http.Server{
		Addr:    addr,
		Handler: wrapped,

		// ReadHeaderTimeout caps how long the server waits for a client to
		// finish sending HTTP headers. This is the primary Slowloris defence:
		// a client that trickles headers one byte at a time is disconnected
		// after this deadline regardless of how slowly it writes.
		ReadHeaderTimeout: 20 * time.Second,

		// IdleTimeout closes keep-alive connections that have been idle for
		// this duration, reclaiming goroutines and file descriptors from
		// clients that connect but stop sending requests.
		IdleTimeout: 120 * time.Second,

		// WriteTimeout is intentionally absent. Large downloads can
		// legitimately take hours; a write deadline would terminate them
		// mid-transfer. The bandwidth limiter keeps slow readers from
		// holding unlimited resources and IdleTimeout handles dead
		// connections.
	}
	return srv.ListenAndServe()
}

// logStartup prints a structured summary of the active configuration.
func logStartup(cfg *config.Config, root, addr string) {
	sep := "-------------------------------------------"
	log.Println(sep)
	log.Printf("  %s", cfg.Title)
	log.Println(sep)
	log.Printf("  %-18s %s", "Address:", "http://"+addr)
	log.Printf("  %-18s %s", "Document root:", root)
	log.Printf("  %-18s %s", "Mime table:", cfg.MimeTypesPath)
	log.Printf("  %-18s %s", "Default type:", cfg.DefaultType)
	log.Printf("  %-18s %s", "Mime cache:", enabledStr(cfg.MimeCache))
	log.Printf("  %-18s %s", "README render:", enabledStr(cfg.RenderDocs))

	if cfg.BandwidthLimit > 0 {
		log.Printf("  %-18s %s/s", "Bandwidth limit:", formatBandwidth(cfg.BandwidthLimit))
	} else {
		log.Printf("  %-18s %s", "Bandwidth limit:", "unlimited")
	}
	log.Println(sep)
}

// enabledStr returns "on" or "off" for use in startup log lines.
func enabledStr(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// formatBandwidth converts a bytes/sec value to a human-readable bits/sec string.
func formatBandwidth(bps float64) string {
	bits := bps * 8
	switch {
	case bits >= 1_000_000_000:
		return fmt.Sprintf("%.2f Gbps", bits/1_000_000_000)
	case bits >= 1_000_000:
		return fmt.Sprintf("%.2f Mbps", bits/1_000_000)
	case bits >= 1_000:
		return fmt.Sprintf("%.2f Kbps", bits/1_000)
	default:
		return fmt.Sprintf("%.0f bps", bits)
	}
}
