// Package content is the request-to-resource translation layer: it maps
// request URIs to canonical filesystem paths confined to the document root,
// infers the content type to report for a resolved path, and supplies the
// reason phrases for the closed set of statuses the server emits.
//
// Every operation is stateless between calls and safe for unsynchronized
// concurrent use; the only shared inputs (document root, default content
// type) are fixed at startup.
package content

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors returned by Resolve. They are distinct so that escape
// attempts can be audited separately from ordinary missing files, even when
// both are presented identically to clients.
var (
	// ErrNotFound means the candidate path could not be canonicalized
	// against the real filesystem: the target does not exist, a component
	// is unreadable, or an I/O error occurred along the way.
	ErrNotFound = errors.New("no such resource")

	// ErrOutsideRoot means canonicalization succeeded but the result lies
	// outside the document root.
	ErrOutsideRoot = errors.New("path escapes document root")
)

// Resolver maps request URIs to canonical absolute paths confined to a
// document root. It is immutable after construction.
type Resolver struct {
	root string // canonical absolute root, no trailing separator
}

// NewResolver canonicalizes root (absolute, symlinks resolved) and returns a
// Resolver confined to it. The root must exist and be a directory.
func NewResolver(root string) (*Resolver, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("document root %q: %w", root, err)
	}
	canon, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("document root %q: %w", root, err)
	}
	info, err := os.Stat(canon)
	if err != nil {
		return nil, fmt.Errorf("document root %q: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("document root %q is not a directory", root)
	}
	return &Resolver{root: filepath.Clean(canon)}, nil
}

// Root returns the canonical document root.
func (r *Resolver) Root() string { return r.root }

// Resolve maps uri to a canonical absolute path guaranteed to be the
// document root itself or a descendant of it. Canonicalization goes through
// the real filesystem, so the target must exist and any symlink is resolved
// before the boundary check, never after. An empty uri addresses the root.
//
// A target that cannot be canonicalized yields ErrNotFound; a path that
// canonicalizes outside the root yields ErrOutsideRoot. Callers that must
// not leak filesystem layout present both identically to clients.
func (r *Resolver) Resolve(uri string) (string, error) {
	// Join keeps ".." segments live across the root boundary: the candidate
	// for "/../../etc/passwd" really is "/etc/passwd", which the prefix
	// check below rejects. The uri must not be lexically cleaned first;
	// that would collapse the traversal before it can be detected.
	candidate := filepath.Join(r.root, filepath.FromSlash(uri))

	canon, err := filepath.EvalSymlinks(candidate)
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", uri, ErrNotFound)
	}

	if !r.contains(canon) {
		return "", fmt.Errorf("resolve %q: %w", uri, ErrOutsideRoot)
	}
	return canon, nil
}

// contains reports whether the canonical path p is the root or one of its
// descendants. The comparison respects path-segment boundaries: for root
// /srv/www, the sibling /srv/www-evil shares a byte prefix but is outside.
func (r *Resolver) contains(p string) bool {
	if p == r.root {
		return true
	}
	return strings.HasPrefix(p, r.root+string(filepath.Separator))
}
