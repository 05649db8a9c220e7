package server

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"staticd/handlers"
)

func TestExecuteListing(t *testing.T) {
	tmpl, err := loadTemplatesFromDisk("../templates")
	if err != nil {
		t.Fatalf("loadTemplatesFromDisk: %v", err)
	}

	listing := &handlers.Listing{
		Title:       "sub",
		SiteName:    "staticd",
		CurrentPath: "/sub",
		Breadcrumbs: []handlers.Breadcrumb{
			{Name: "root", Path: "/"},
			{Name: "sub", Path: "/sub"},
		},
		Entries: []handlers.FileEntry{
			{Name: "docs", Path: "/sub/docs", IsDir: true, ModTime: time.Now()},
			{Name: "hello.html", Path: "/sub/hello.html", Size: 2048, ModTime: time.Now(), ContentType: "text/html"},
		},
		Readme: "<h1 id=\"hi\">Hi</h1>",
	}

	w := httptest.NewRecorder()
	if err := tmpl.ExecuteListing(w, listing); err != nil {
		t.Fatalf("ExecuteListing: %v", err)
	}

	body := w.Body.String()
	for _, want := range []string{
		"<title>sub &middot; staticd</title>",
		`<a href="/sub/hello.html">hello.html</a>`,
		`<a href="/sub/docs">docs/</a>`,
		"text/html",
		"2.0 KB",
		`<h1 id="hi">Hi</h1>`,
		`href="/highlight.css"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("rendered listing missing %q", want)
		}
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestHumanSize(t *testing.T) {
	cases := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1 << 20, "1.0 MB"},
		{5 << 30, "5.0 GB"},
	}
	for _, c := range cases {
		if got := humanSize(c.n); got != c.want {
			t.Errorf("humanSize(%d) = %q, want %q", c.n, got, c.want)
		}
	}
}
