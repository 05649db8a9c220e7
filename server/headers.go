package server

import "net/http"

// securityHeaders wraps h with the response headers every page gets.
// X-Content-Type-Options in particular matters here: the classifier's output
// is authoritative and browsers must not re-sniff it into something
// executable.
func securityHeaders(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hdr := w.Header()
		hdr.Set("X-Content-Type-Options", "nosniff")
		hdr.Set("X-Frame-Options", "DENY")
		hdr.Set("Referrer-Policy", "no-referrer")
		h.ServeHTTP(w, r)
	})
}
