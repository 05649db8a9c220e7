// Package config handles all server configuration.
// CLI flags take precedence; environment variables are used as fallback.
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
)

// Config holds the complete server configuration.
type Config struct {
	// Port is the TCP port the HTTP server listens on.
	Port int
	// Dir is the document root; every served path is confined to it.
	Dir string
	// MimeTypesPath locates the content-type rule table.
	MimeTypesPath string
	// DefaultType is the content type reported when no rule applies.
	DefaultType string
	// MimeCache enables the in-memory rule-table cache. When false the
	// table is re-read on every classification.
	MimeCache bool
	// BandwidthLimit is the total server-wide download cap in bytes per
	// second. 0 means unlimited.
	BandwidthLimit float64
	// StatsDir is the directory in which the transfer-statistics database
	// is stored. Defaults to the current working directory when empty.
	StatsDir string
	// RenderDocs controls whether README.md / README.org files are rendered
	// below directory listings.
	RenderDocs bool
	// Theme is the Chroma syntax-highlighting theme used for code blocks in
	// rendered README files.
	Theme string
	// Title is the branding name shown in listing page titles.
	Title string
}

// Load parses flags and environment variables, returning a validated Config.
func Load() (*Config, error) {
	dirFlag := flag.String("dir", "", "Document root to serve (env: STATICD_DIR)")
	portFlag := flag.Int("port", 0, "HTTP port to listen on (env: STATICD_PORT, default: 7887)")
	mimeFlag := flag.String("mime-types", "", "Content-type rule table (env: STATICD_MIME_TYPES, default: /etc/mime.types)")
	defaultTypeFlag := flag.String("default-type", "", "Fallback content type (env: STATICD_DEFAULT_TYPE, default: text/plain)")
	mimeCacheFlag := flag.String("mime-cache", "", "Cache the parsed rule table in memory: true or false (env: STATICD_MIME_CACHE, default: false)")
	bandwidthFlag := flag.String("bandwidth", "", "Total download bandwidth cap, e.g. 10mbps, 500kbps, 1gbps (env: STATICD_BANDWIDTH, default: unlimited)")
	statsDirFlag := flag.String("stats-dir", "", "Directory in which the statistics database is stored (env: STATICD_STATS_DIR, default: current working directory)")
	renderDocsFlag := flag.String("render-docs", "", "Render README files below directory listings: true or false (env: STATICD_RENDER_DOCS, default: true)")
	themeFlag := flag.String("highlight-theme", "", "Chroma syntax-highlight theme for README code blocks (env: STATICD_HIGHLIGHT_THEME, default: catppuccin-mocha)")
	titleFlag := flag.String("title", "", "Site branding title (env: STATICD_TITLE, default: staticd)")
	flag.Parse()

	// --- port ---
	port := *portFlag
	if port == 0 {
		// fall back to env
		if v := os.Getenv("STATICD_PORT"); v != "" {
			p, err := strconv.Atoi(v)
			if err != nil || p < 1 || p > 65535 {
				return nil, fmt.Errorf("invalid STATICD_PORT value %q", v)
			}
			port = p
		} else {
			port = 7887
		}
	}

	// --- dir ---
	dir := *dirFlag
	if dir == "" {
		dir = os.Getenv("STATICD_DIR")
	}
	// A single positional argument is also accepted as the document root.
	if dir == "" && flag.NArg() > 0 {
		dir = flag.Arg(0)
	}
	if dir == "" {
		return nil, fmt.Errorf("a document root must be specified via -dir flag, STATICD_DIR env var, or positional argument")
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("document root %q: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%q is not a directory", dir)
	}

	// --- mime-types ---
	// The table is allowed to be missing: classification degrades to the
	// default type and never blocks serving, so there is no stat here.
	mimeTypes := *mimeFlag
	if mimeTypes == "" {
		if v := os.Getenv("STATICD_MIME_TYPES"); v != "" {
			mimeTypes = v
		} else {
			mimeTypes = "/etc/mime.types"
		}
	}

	// --- default-type ---
	defaultType := *defaultTypeFlag
	if defaultType == "" {
		if v := os.Getenv("STATICD_DEFAULT_TYPE"); v != "" {
			defaultType = v
		} else {
			defaultType = "text/plain"
		}
	}

	// --- mime-cache ---
	mimeCache := parseBoolFlag(*mimeCacheFlag, "STATICD_MIME_CACHE", false)

	// --- bandwidth ---
	bwRaw := *bandwidthFlag
	if bwRaw == "" {
		bwRaw = os.Getenv("STATICD_BANDWIDTH")
	}
	var bandwidthBps float64
	if bwRaw != "" {
		bps, err := parseBandwidth(bwRaw)
		if err != nil {
			return nil, fmt.Errorf("invalid bandwidth %q: %w", bwRaw, err)
		}
		bandwidthBps = bps
	}

	// --- stats-dir ---
	statsDir := *statsDirFlag
	if statsDir == "" {
		if v := os.Getenv("STATICD_STATS_DIR"); v != "" {
			statsDir = v
		} else {
			cwd, err := os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("could not determine current working directory: %w", err)
			}
			statsDir = cwd
		}
	}

	// --- render-docs ---
	renderDocs := parseBoolFlag(*renderDocsFlag, "STATICD_RENDER_DOCS", true)

	// --- highlight-theme ---
	theme := *themeFlag
	if theme == "" {
		if v := os.Getenv("STATICD_HIGHLIGHT_THEME"); v != "" {
			theme = v
		} else {
			theme = "catppuccin-mocha"
		}
	}

	// --- title ---
	title := *titleFlag
	if title == "" {
		if v := os.Getenv("STATICD_TITLE"); v != "" {
			title = v
		} else {
			title = "staticd"
		}
	}

	return &Config{
		Port:           port,
		Dir:            dir,
		MimeTypesPath:  mimeTypes,
		DefaultType:    defaultType,
		MimeCache:      mimeCache,
		BandwidthLimit: bandwidthBps,
		StatsDir:       statsDir,
		RenderDocs:     renderDocs,
		Theme:          theme,
		Title:          title,
	}, nil
}

// parseBoolFlag resolves a boolean option from a CLI string flag value, with
// fallback to an environment variable and then a compile-time default.
// Accepted truthy strings: "1", "t", "true", "yes", "on".
// Accepted falsy strings:  "0", "f", "false", "no", "off".
// An empty string means "not set"; the next source in the chain is tried.
func parseBoolFlag(flagVal, envKey string, defaultVal bool) bool {
	if flagVal != "" {
		if b, ok := parseBoolString(flagVal); ok {
			return b
		}
	}
	if v := os.Getenv(envKey); v != "" {
		if b, ok := parseBoolString(v); ok {
			return b
		}
	}
	return defaultVal
}

// parseBoolString converts a human-readable boolean string to a bool.
func parseBoolString(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "t", "true", "yes", "on":
		return true, true
	case "0", "f", "false", "no", "off":
		return false, true
	}
	return false, false
}

// parseBandwidth converts a human-readable bandwidth string to bytes per
// second. Accepted units (case-insensitive): bps, kbps, mbps, gbps.
// A bare number is treated as bits per second.
//
// Examples: "10mbps", "500 kbps", "1gbps", "131072"
func parseBandwidth(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return 0, nil
	}

	// Split into numeric prefix and unit suffix.
	i := 0
	for i < len(s) && (s[i] == '.' || (s[i] >= '0' && s[i] <= '9')) {
		i++
	}
	if i == 0 {
		return 0, fmt.Errorf("no numeric value found")
	}
	numStr := s[:i]
	unit := strings.ToLower(strings.TrimFunc(s[i:], unicode.IsSpace))

	val, err := strconv.ParseFloat(numStr, 64)
	if err != nil || val < 0 {
		return 0, fmt.Errorf("invalid number %q", numStr)
	}

	// Convert bits/sec units to bytes/sec.
	switch unit {
	case "", "bps":
		return val / 8, nil
	case "kbps":
		return val * 1_000 / 8, nil
	case "mbps":
		return val * 1_000_000 / 8, nil
	case "gbps":
		return val * 1_000_000_000 / 8, nil
	default:
		return 0, fmt.Errorf("unknown unit %q (accepted: bps, kbps, mbps, gbps)", unit)
	}
}
