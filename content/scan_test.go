package content

import "testing"

func TestSkipSpace(t *testing.T) {
	tests := []struct {
		s    string
		i    int
		want int
	}{
		{"  abc", 0, 2},
		{"abc", 0, 0},
		{"\t\n\r def", 0, 4},
		{"    ", 0, 4},  // all whitespace: stops at end of string
		{"", 0, 0},      // empty input
		{"abc", 10, 3},  // cursor past the end is clamped
		{"abc", -5, 0},  // negative cursor is clamped
		{"ab  cd", 2, 4},
	}
	for _, tt := range tests {
		if got := skipSpace(tt.s, tt.i); got != tt.want {
			t.Errorf("skipSpace(%q, %d) = %d, want %d", tt.s, tt.i, got, tt.want)
		}
	}
}

func TestSkipToken(t *testing.T) {
	tests := []struct {
		s    string
		i    int
		want int
	}{
		{"abc def", 0, 3},
		{"  abc", 0, 0},
		{"abcdef", 0, 6}, // all non-whitespace: stops at end of string
		{"", 0, 0},
		{"abc", 10, 3},
		{"abc", -1, 3},
		{"ab cd", 3, 5},
	}
	for _, tt := range tests {
		if got := skipToken(tt.s, tt.i); got != tt.want {
			t.Errorf("skipToken(%q, %d) = %d, want %d", tt.s, tt.i, got, tt.want)
		}
	}
}

func TestScanRoundTrip(t *testing.T) {
	// Alternating the two primitives walks a line token by token without
	// ever running past the end.
	line := "text/html\thtm html  "
	var tokens []string
	i := 0
	for {
		i = skipSpace(line, i)
		if i == len(line) {
			break
		}
		j := skipToken(line, i)
		tokens = append(tokens, line[i:j])
		i = j
	}
	want := []string{"text/html", "htm", "html"}
	if len(tokens) != len(want) {
		t.Fatalf("tokens = %v, want %v", tokens, want)
	}
	for k := range want {
		if tokens[k] != want[k] {
			t.Errorf("token %d = %q, want %q", k, tokens[k], want[k])
		}
	}
}
