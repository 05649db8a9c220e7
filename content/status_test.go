package content

import "testing"

func TestStatusText(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusOK, "200 OK"},
		{StatusBadRequest, "400 Bad Request"},
		{StatusNotFound, "404 Not Found"},
		{StatusTeapot, "418 I'm A Teapot"},
		{StatusInternalServerError, "500 Internal Server Error"},
	}
	for _, tt := range tests {
		got, ok := StatusText(tt.status)
		if !ok {
			t.Errorf("StatusText(%d) not found", tt.status)
			continue
		}
		if got != tt.want {
			t.Errorf("StatusText(%d) = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestStatusTextUnknown(t *testing.T) {
	for _, s := range []Status{0, 201, 302, 403, 502, -1} {
		if got, ok := StatusText(s); ok {
			t.Errorf("StatusText(%d) = %q, want explicit absent result", s, got)
		}
	}
}
