package content

import (
	"bufio"
	"os"
	"sync"
	"time"
)

// rule is one parsed rule-table line.
type rule struct {
	typ  string
	exts []string
}

// CachedClassifier is a read-through variant of Classifier that keeps the
// parsed rule table in memory, keyed by the table file's modification time
// and size. It preserves the Classifier contracts exactly: the first
// matching line in file order wins, and any failure to read the table
// degrades to Default; a table that has become unreadable behaves the same
// with the cache as without it.
//
// Staleness is detected by a stat on every call, so a rewritten table takes
// effect immediately even when no watcher is driving Invalidate.
type CachedClassifier struct {
	Classifier

	mu      sync.Mutex
	rules   []rule
	modTime time.Time
	size    int64
	loaded  bool
}

// NewCachedClassifier returns a caching classifier over the given table.
func NewCachedClassifier(tablePath, defaultType string) *CachedClassifier {
	return &CachedClassifier{
		Classifier: Classifier{TablePath: tablePath, Default: defaultType},
	}
}

// Classify behaves like Classifier.Classify, reparsing the table only when
// its (mtime, size) signature changes or Invalidate has been called.
func (c *CachedClassifier) Classify(path string) string {
	ext := pathExt(path)
	if ext == "" {
		return c.Default
	}

	rules, ok := c.current()
	if !ok {
		return c.Default
	}
	for _, r := range rules {
		for _, e := range r.exts {
			if e == ext {
				return r.typ
			}
		}
	}
	return c.Default
}

// Invalidate drops the cached rules so the next call reparses the table.
func (c *CachedClassifier) Invalidate() {
	c.mu.Lock()
	c.loaded = false
	c.rules = nil
	c.mu.Unlock()
}

// current returns the cached rules, reparsing when the table's signature no
// longer matches. Stat or parse failure drops the cache and reports false so
// the caller falls back to Default.
func (c *CachedClassifier) current() ([]rule, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	info, err := os.Stat(c.TablePath)
	if err != nil {
		c.loaded = false
		c.rules = nil
		return nil, false
	}
	if c.loaded && info.ModTime().Equal(c.modTime) && info.Size() == c.size {
		return c.rules, true
	}

	rules, err := parseTable(c.TablePath)
	if err != nil {
		c.loaded = false
		c.rules = nil
		return nil, false
	}
	c.rules = rules
	c.modTime = info.ModTime()
	c.size = info.Size()
	c.loaded = true
	return rules, true
}

// parseTable materializes every rule line of the table, preserving file
// order so the first-match tie-break is identical to a fresh scan.
func parseTable(path string) ([]rule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rules []rule
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if r, ok := parseLine(sc.Text()); ok {
			rules = append(rules, r)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return rules, nil
}

// parseLine splits one line into its content-type and extension tokens.
// Comment lines and lines with no extension tokens produce no rule.
func parseLine(line string) (rule, bool) {
	i := skipSpace(line, 0)
	if i == len(line) || line[i] == '#' {
		return rule{}, false
	}
	j := skipToken(line, i)
	r := rule{typ: line[i:j]}
	for {
		i = skipSpace(line, j)
		if i == len(line) {
			break
		}
		j = skipToken(line, i)
		r.exts = append(r.exts, line[i:j])
	}
	if len(r.exts) == 0 {
		return rule{}, false
	}
	return r, true
}
