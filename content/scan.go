package content

// Cursor primitives for scanning whitespace-delimited rule-table lines.
// Both are pure and allocation-free; cursors out of range come back clamped
// to len(s), so callers can chain them without bounds checks.

// skipSpace returns the index of the first non-whitespace byte of s at or
// after i, or len(s) when the remainder is entirely whitespace.
func skipSpace(s string, i int) int {
	if i < 0 {
		i = 0
	}
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	if i > len(s) {
		return len(s)
	}
	return i
}

// skipToken returns the index of the first whitespace byte of s at or after
// i, or len(s) when the remainder is entirely non-whitespace.
func skipToken(s string, i int) int {
	if i < 0 {
		i = 0
	}
	for i < len(s) && !isSpace(s[i]) {
		i++
	}
	if i > len(s) {
		return len(s)
	}
	return i
}

// isSpace matches the ASCII whitespace set found in mime.types tables.
func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
