package handlers

import (
	"html/template"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"staticd/content"
)

// FileEntry represents a single file or directory in a listing.
type FileEntry struct {
	Name        string
	Path        string // URL path (e.g. /subdir/file.txt)
	IsDir       bool
	Size        int64
	ModTime     time.Time
	ContentType string // empty for directories
}

// Listing holds everything a directory template needs.
type Listing struct {
	Title       string
	SiteName    string // branding name shown in the header and page title
	CurrentPath string // URL path of this directory
	Breadcrumbs []Breadcrumb
	Entries     []FileEntry
	// Readme is the rendered README for this directory, or empty when none
	// exists or rendering is disabled.
	Readme template.HTML
}

// Breadcrumb is one segment of the path shown in the navigation bar.
type Breadcrumb struct {
	Name string
	Path string // URL path for this breadcrumb
}

// ListingTemplate renders a directory listing page.
type ListingTemplate interface {
	ExecuteListing(w http.ResponseWriter, data *Listing) error
}

// serveDir renders a listing for an already-resolved directory.
func serveDir(w http.ResponseWriter, r *http.Request, fsPath, urlPath string, classify Classifier, opts ListingOptions, tmpl ListingTemplate) {
	urlPath = path.Clean("/" + urlPath)

	entries, err := buildEntries(fsPath, urlPath, classify)
	if err != nil {
		httpError(w, content.StatusInternalServerError)
		return
	}

	title := opts.Title
	if urlPath != "/" {
		title = filepath.Base(urlPath)
	}

	listing := &Listing{
		Title:       title,
		SiteName:    opts.Title,
		CurrentPath: urlPath,
		Breadcrumbs: buildBreadcrumbs(urlPath),
		Entries:     entries,
	}
	if opts.RenderDocs {
		listing.Readme = Readme(fsPath)
	}

	if err := tmpl.ExecuteListing(w, listing); err != nil {
		httpError(w, content.StatusInternalServerError)
	}
}

// entryIsDir reports whether a directory entry is a directory, correctly
// following symlinks. os.ReadDir uses os.Lstat semantics, so DirEntry.IsDir
// returns false for symlinks that point to directories; this helper resolves
// the symlink via os.Stat when necessary.
func entryIsDir(parent string, d os.DirEntry) bool {
	if d.Type()&os.ModeSymlink == 0 {
		return d.IsDir()
	}
	fi, err := os.Stat(filepath.Join(parent, d.Name()))
	return err == nil && fi.IsDir()
}

// buildEntries reads a directory and returns sorted FileEntry values.
// Unreadable entries are skipped rather than failing the whole listing.
func buildEntries(fsPath, urlPath string, classify Classifier) ([]FileEntry, error) {
	rawEntries, err := os.ReadDir(fsPath)
	if err != nil {
		return nil, err
	}

	entries := make([]FileEntry, 0, len(rawEntries))
	for _, e := range rawEntries {
		fullPath := filepath.Join(fsPath, e.Name())
		isDir := entryIsDir(fsPath, e)

		// os.Stat so that symlinks are followed for size and modtime.
		fi, err := os.Stat(fullPath)
		if err != nil {
			continue
		}

		fe := FileEntry{
			Name:    e.Name(),
			Path:    path.Join(urlPath, e.Name()),
			IsDir:   isDir,
			Size:    fi.Size(),
			ModTime: fi.ModTime(),
		}
		if !isDir {
			fe.ContentType = classify.Classify(fullPath)
		}
		entries = append(entries, fe)
	}

	// Directories first, then files; each group sorted alphabetically.
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].IsDir != entries[j].IsDir {
			return entries[i].IsDir
		}
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})

	return entries, nil
}

// buildBreadcrumbs creates a slice of breadcrumbs from a URL path.
func buildBreadcrumbs(urlPath string) []Breadcrumb {
	crumbs := []Breadcrumb{{Name: "root", Path: "/"}}
	if urlPath == "/" {
		return crumbs
	}

	parts := strings.Split(strings.Trim(urlPath, "/"), "/")
	current := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		current += "/" + p
		crumbs = append(crumbs, Breadcrumb{Name: p, Path: current})
	}
	return crumbs
}
