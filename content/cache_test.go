package content

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestCachedClassifyMatchesFreshScan(t *testing.T) {
	path := writeTable(t, testTable)
	fresh := &Classifier{TablePath: path, Default: "text/plain"}
	cached := NewCachedClassifier(path, "text/plain")

	for _, p := range []string{"a.html", "a.htm", "b.css", "c.png", "d.xyz", "README", "x.HTML"} {
		want := fresh.Classify(p)
		if got := cached.Classify(p); got != want {
			t.Errorf("cached Classify(%q) = %q, fresh scan gives %q", p, got, want)
		}
	}
}

func TestCachedClassifyInvalidate(t *testing.T) {
	path := writeTable(t, "text/html\thtml\n")
	c := NewCachedClassifier(path, "text/plain")

	if got := c.Classify("a.html"); got != "text/html" {
		t.Fatalf("Classify(a.html) = %q, want text/html", got)
	}

	// Rewrite the table with a different length so the (mtime, size)
	// signature changes even on filesystems with coarse mtime granularity.
	if err := os.WriteFile(path, []byte("application/xhtml+xml\thtml\n"), 0o644); err != nil {
		t.Fatalf("rewrite table: %v", err)
	}
	c.Invalidate()

	if got := c.Classify("a.html"); got != "application/xhtml+xml" {
		t.Errorf("Classify after rewrite = %q, want application/xhtml+xml", got)
	}
}

func TestCachedClassifySizeChangeDetected(t *testing.T) {
	path := writeTable(t, "text/html\thtml\n")
	c := NewCachedClassifier(path, "text/plain")

	if got := c.Classify("a.css"); got != "text/plain" {
		t.Fatalf("Classify(a.css) = %q, want default before rewrite", got)
	}

	// No explicit Invalidate: the per-call stat must notice the new size.
	if err := os.WriteFile(path, []byte("text/html\thtml\ntext/css\tcss extra\n"), 0o644); err != nil {
		t.Fatalf("rewrite table: %v", err)
	}
	if got := c.Classify("a.css"); got != "text/css" {
		t.Errorf("Classify after size change = %q, want text/css", got)
	}
}

func TestCachedClassifyTableRemoved(t *testing.T) {
	path := writeTable(t, "text/html\thtml\n")
	c := NewCachedClassifier(path, "text/plain")

	if got := c.Classify("a.html"); got != "text/html" {
		t.Fatalf("Classify(a.html) = %q", got)
	}

	// A table that disappears must degrade to the default, exactly like the
	// uncached classifier; the stale cache may not paper over it.
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove table: %v", err)
	}
	if got := c.Classify("a.html"); got != "text/plain" {
		t.Errorf("Classify with removed table = %q, want default", got)
	}

	// And it recovers once the table is back.
	if err := os.WriteFile(path, []byte("text/html\thtml\n"), 0o644); err != nil {
		t.Fatalf("restore table: %v", err)
	}
	if got := c.Classify("a.html"); got != "text/html" {
		t.Errorf("Classify with restored table = %q, want text/html", got)
	}
}

func TestCachedClassifyNoExtension(t *testing.T) {
	c := NewCachedClassifier(filepath.Join(t.TempDir(), "missing"), "text/plain")
	if got := c.Classify("/srv/www/README"); got != "text/plain" {
		t.Errorf("Classify(README) = %q, want default", got)
	}
}

func TestCachedClassifyConcurrent(t *testing.T) {
	path := writeTable(t, testTable)
	c := NewCachedClassifier(path, "text/plain")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if i%2 == 0 && j%10 == 0 {
					c.Invalidate()
				}
				if got := c.Classify("x.css"); got != "text/css" {
					t.Errorf("Classify(x.css) = %q", got)
					return
				}
			}
		}(i)
	}
	wg.Wait()
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		line string
		typ  string
		exts int
		ok   bool
	}{
		{"text/html\thtm html", "text/html", 2, true},
		{"  text/css   css  ", "text/css", 1, true},
		{"# comment html", "", 0, false},
		{"", "", 0, false},
		{"   ", "", 0, false},
		{"lonely/type", "", 0, false},
	}
	for _, tt := range tests {
		r, ok := parseLine(tt.line)
		if ok != tt.ok {
			t.Errorf("parseLine(%q) ok = %v, want %v", tt.line, ok, tt.ok)
			continue
		}
		if !ok {
			continue
		}
		if r.typ != tt.typ || len(r.exts) != tt.exts {
			t.Errorf("parseLine(%q) = {%q, %d exts}, want {%q, %d}", tt.line, r.typ, len(r.exts), tt.typ, tt.exts)
		}
	}
}
