package handlers

import (
	"bytes"
	"html/template"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/microcosm-cc/bluemonday"
	"github.com/niklasfasching/go-org/org"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/parser"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
)

// maxReadmeSize caps how much README content is read for rendering. Anything
// larger is skipped; listings must stay cheap.
const maxReadmeSize = 512 * 1024

// renderTheme is the Chroma style name used for code block highlighting in
// rendered README files. Set once at startup by InitRender.
var renderTheme = "catppuccin-mocha"

// docPolicy is the bluemonday sanitization policy applied to all rendered
// output. Nil until InitRender is called; sanitizeHTML falls back to a
// freshly built policy when rendering happens before initialisation (tests).
var docPolicy *bluemonday.Policy

// InitRender configures the README renderer. It must be called once at
// startup, before the server begins accepting requests.
func InitRender(theme string) {
	renderTheme = theme
	docPolicy = buildDocPolicy()
}

// buildDocPolicy constructs the sanitization allowlist for rendered README
// output: bluemonday's user-generated-content baseline plus the id/class
// attributes that heading anchors and Chroma's CSS classes need.
func buildDocPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("id", "class").Globally()
	return p
}

// Readme locates a README.md or README.org in dir (case-insensitive,
// Markdown preferred) and returns it rendered and sanitized, or "" when none
// exists, it is too large, or rendering fails. Failures are logged; they
// never block the listing.
func Readme(dir string) template.HTML {
	name, kind := findReadme(dir)
	if name == "" {
		return ""
	}
	full := filepath.Join(dir, name)

	info, err := os.Stat(full)
	if err != nil || info.Size() > maxReadmeSize {
		return ""
	}
	raw, err := os.ReadFile(full)
	if err != nil {
		log.Printf("readme: could not read %s: %v", full, err)
		return ""
	}

	var out template.HTML
	switch kind {
	case "md":
		out, err = renderMarkdown(string(raw))
	case "org":
		out, err = renderOrg(string(raw))
	}
	if err != nil {
		log.Printf("readme: could not render %s: %v", full, err)
		return ""
	}
	return out
}

// findReadme returns the README file name in dir and its kind ("md" or
// "org"). Markdown wins over Org when both are present.
func findReadme(dir string) (name, kind string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", ""
	}
	var orgName string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(e.Name()) {
		case "readme.md", "readme.markdown":
			return e.Name(), "md"
		case "readme.org":
			orgName = e.Name()
		}
	}
	if orgName != "" {
		return orgName, "org"
	}
	return "", ""
}

// renderMarkdown converts Markdown to HTML using goldmark with
// GitHub-flavoured extensions and Chroma highlighting on fenced code blocks.
// Raw HTML blocks pass through the renderer and are stripped back down by
// sanitizeHTML, so authors cannot smuggle scripts into a listing page.
func renderMarkdown(content string) (template.HTML, error) {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM, // tables, strikethrough, linkify, task lists
			highlighting.NewHighlighting(
				highlighting.WithStyle(renderTheme),
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			goldmarkhtml.WithUnsafe(), // sanitized below
		),
	)
	var buf bytes.Buffer
	if err := md.Convert([]byte(content), &buf); err != nil {
		return "", err
	}
	return template.HTML(sanitizeHTML(buf.String())), nil
}

// renderOrg converts Emacs Org-mode content to HTML using go-org, slotting
// Chroma in through the HighlightCodeBlock hook so #+BEGIN_SRC blocks pick
// up the same stylesheet as Markdown code fences.
func renderOrg(content string) (template.HTML, error) {
	doc := org.New().Parse(strings.NewReader(content), "")
	w := org.NewHTMLWriter()
	w.HighlightCodeBlock = func(source, lang string, inline bool, _ map[string]string) string {
		return chromaHighlightBlock(source, lang)
	}
	out, err := doc.Write(w)
	if err != nil {
		return "", err
	}
	return template.HTML(sanitizeHTML(out)), nil
}

// chromaHighlightBlock runs source through the Chroma lexer for lang and
// returns a highlighted HTML fragment using CSS classes. Returns "" on any
// error so go-org falls back to its plain <pre> rendering.
func chromaHighlightBlock(source, lang string) string {
	l := lexers.Get(lang)
	if l == nil {
		l = lexers.Fallback
	}
	l = chroma.Coalesce(l)

	style := styles.Get(renderTheme)
	if style == nil {
		style = styles.Fallback
	}

	f := chromahtml.New(chromahtml.WithClasses(true))

	it, err := l.Tokenise(nil, source)
	if err != nil {
		return ""
	}
	var buf bytes.Buffer
	if err := f.Format(&buf, style, it); err != nil {
		return ""
	}
	return buf.String()
}

// sanitizeHTML runs input through the document policy, stripping any element
// or attribute not on the allowlist.
func sanitizeHTML(input string) string {
	if docPolicy == nil {
		return buildDocPolicy().Sanitize(input)
	}
	return docPolicy.Sanitize(input)
}

// HighlightCSSHandler serves the Chroma stylesheet for the configured theme.
// The CSS is generated once at route-registration time; the theme cannot
// change while the server is running.
func HighlightCSSHandler(theme string) http.HandlerFunc {
	style := styles.Get(theme)
	if style == nil {
		style = styles.Fallback
	}
	f := chromahtml.New(chromahtml.WithClasses(true))

	var buf bytes.Buffer
	if err := f.WriteCSS(&buf, style); err != nil {
		log.Printf("highlight: could not generate CSS for theme %q: %v", theme, err)
	}
	css := buf.Bytes()

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/css; charset=utf-8")
		w.Header().Set("Content-Length", strconv.Itoa(len(css)))
		w.Write(css)
	}
}
