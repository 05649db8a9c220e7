// Package server contains the HTTP server setup and template management.
package server

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"staticd/handlers"
)

// Templates wraps the compiled listing template set.
type Templates struct {
	listing *template.Template
}

var tmplFuncs = template.FuncMap{
	"humanSize": humanSize,
}

// LoadTemplates parses all templates from the embedded FS.
func LoadTemplates(tfs embed.FS) (*Templates, error) {
	sub, err := fs.Sub(tfs, "templates")
	if err != nil {
		return nil, fmt.Errorf("sub fs: %w", err)
	}
	t, err := template.New("").Funcs(tmplFuncs).ParseFS(sub, "base.html", "listing.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Templates{listing: t}, nil
}

// loadTemplatesFromDisk loads templates directly from the filesystem.
// Used in tests where the embedded FS is not available.
func loadTemplatesFromDisk(dir string) (*Templates, error) {
	t, err := template.New("").Funcs(tmplFuncs).ParseFiles(dir+"/base.html", dir+"/listing.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Templates{listing: t}, nil
}

// ExecuteListing renders the directory listing template.
func (t *Templates) ExecuteListing(w http.ResponseWriter, data *handlers.Listing) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return t.listing.ExecuteTemplate(w, "base", data)
}

// humanSize formats a byte count into a human-readable string.
func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for n := n / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
