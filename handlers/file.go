// Package handlers contains all HTTP handler functions.
package handlers

import (
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"staticd/content"
)

// Classifier is the content-typing dependency of the handlers. Both
// content.Classifier and content.CachedClassifier satisfy it.
type Classifier interface {
	Classify(path string) string
}

// ListingOptions carries the configuration the directory-listing path needs.
type ListingOptions struct {
	// Title is the branding name shown in page titles.
	Title string
	// RenderDocs enables README rendering below listings.
	RenderDocs bool
}

// ServeHandler is the catch-all request handler: it resolves the request URI
// against the document root, serves files with a classified Content-Type, and
// delegates directories to the listing renderer.
//
// Rejected resolutions, escapes and ordinary misses alike, produce the
// same 404 response. Whether a traversal attempt pointed at a real file
// outside the root or at nothing at all is not observable from the outside;
// escapes are only distinguished in the audit log.
func ServeHandler(res *content.Resolver, classify Classifier, opts ListingOptions, tmpl ListingTemplate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uri := r.URL.Path
		if strings.IndexByte(uri, 0) >= 0 || !strings.HasPrefix(uri, "/") {
			httpError(w, content.StatusBadRequest)
			return
		}

		fsPath, err := res.Resolve(uri)
		if err != nil {
			if errors.Is(err, content.ErrOutsideRoot) {
				log.Printf("resolve: blocked escape   ip=%-15s  uri=%q", clientIP(r), uri)
			}
			httpError(w, content.StatusNotFound)
			return
		}

		info, err := os.Stat(fsPath)
		if err != nil {
			httpError(w, content.StatusNotFound)
			return
		}

		if info.IsDir() {
			serveDir(w, r, fsPath, uri, classify, opts, tmpl)
			return
		}

		f, err := os.Open(fsPath)
		if err != nil {
			httpError(w, content.StatusInternalServerError)
			return
		}
		defer f.Close()

		start := time.Now()
		w.Header().Set("Content-Type", classify.Classify(fsPath))

		// ServeContent sets Content-Length from the ReadSeeker and fully
		// supports range and conditional requests.
		http.ServeContent(w, r, filepath.Base(fsPath), info.ModTime(), f)

		RecordTransfer(uri, info.Size())
		log.Printf("file served     ip=%-15s  size=%-10s  duration=%s  file=%s",
			clientIP(r), formatSize(info.Size()), time.Since(start).Round(time.Millisecond), uri)
	}
}

// httpError writes a plain-text error response using the closed status set.
// An unknown status here is a programming error; it is downgraded to 500
// rather than panicking in the serving path.
func httpError(w http.ResponseWriter, s content.Status) {
	text, ok := content.StatusText(s)
	if !ok {
		s = content.StatusInternalServerError
		text, _ = content.StatusText(s)
	}
	http.Error(w, text, int(s))
}

// clientIP extracts the remote IP from the request, stripping the port.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// formatSize formats a byte count as a human-readable string.
func formatSize(b int64) string {
	switch {
	case b >= 1<<30:
		return fmt.Sprintf("%.2f GB", float64(b)/float64(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.2f MB", float64(b)/float64(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.2f KB", float64(b)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
