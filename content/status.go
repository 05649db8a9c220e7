package content

// Status is the closed set of response statuses the server emits. It is
// deliberately not user-extensible: StatusText reports false for any code
// outside the set rather than inventing a phrase.
type Status int

const (
	StatusOK                  Status = 200
	StatusBadRequest          Status = 400
	StatusNotFound            Status = 404
	StatusTeapot              Status = 418
	StatusInternalServerError Status = 500
)

// StatusText returns the full status-line text for s, e.g. "404 Not Found".
// The second result is false for a code outside the closed set; the caller
// decides whether querying an undefined code is a programming error or
// ignorable.
func StatusText(s Status) (string, bool) {
	switch s {
	case StatusOK:
		return "200 OK", true
	case StatusBadRequest:
		return "400 Bad Request", true
	case StatusNotFound:
		return "404 Not Found", true
	case StatusTeapot:
		return "418 I'm A Teapot", true
	case StatusInternalServerError:
		return "500 Internal Server Error", true
	}
	return "", false
}
