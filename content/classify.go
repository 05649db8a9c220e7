package content

import (
	"bufio"
	"os"
)

// Classifier infers a content type for a path from a mime.types-format rule
// table: one rule per line, a content-type token followed by the extension
// tokens it covers. The table is opened and scanned fresh on every call, so
// edits to it take effect immediately; see CachedClassifier for the cached
// variant.
//
// Classify never fails. Content typing is best-effort: a missing extension,
// an unreadable table, or a table with no matching rule all degrade to
// Default rather than blocking the file from being served.
type Classifier struct {
	// TablePath locates the rule table, conventionally /etc/mime.types.
	TablePath string
	// Default is the content type reported when no rule applies.
	// Must be non-empty; "text/plain" is the usual choice.
	Default string
}

// Classify returns the content type for path. The extension is taken from
// the final path component; a component with no extension short-circuits to
// Default without touching the table. Extension comparison is
// case-sensitive, and the first matching line in file order wins: table
// ordering is the documented tie-break for overlapping rules, not an
// accident of implementation.
func (c *Classifier) Classify(path string) string {
	ext := pathExt(path)
	if ext == "" {
		return c.Default
	}

	f, err := os.Open(c.TablePath)
	if err != nil {
		return c.Default
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if typ, ok := matchLine(sc.Text(), ext); ok {
			return typ
		}
	}
	return c.Default
}

// matchLine scans one rule line and reports whether ext appears among its
// extension tokens, returning the line's content-type token when it does.
// The first token is always the content type; only the tokens after it are
// extensions. Blank lines, comment lines, and lines with no extension
// tokens never match.
func matchLine(line, ext string) (string, bool) {
	i := skipSpace(line, 0)
	if i == len(line) || line[i] == '#' {
		return "", false
	}
	j := skipToken(line, i)
	typ := line[i:j]
	for {
		i = skipSpace(line, j)
		if i == len(line) {
			return "", false
		}
		j = skipToken(line, i)
		if line[i:j] == ext {
			return typ, true
		}
	}
}

// pathExt returns the extension of the final component of p without the
// leading dot, or "" when the final component has none.
func pathExt(p string) string {
	for i := len(p) - 1; i >= 0; i-- {
		switch p[i] {
		case '/', '\\':
			return ""
		case '.':
			return p[i+1:]
		}
	}
	return ""
}
