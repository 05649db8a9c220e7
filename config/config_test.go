package config

import "testing"

func TestParseBandwidth(t *testing.T) {
	cases := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"", 0, false},
		{"0", 0, false},
		{"8bps", 1, false},
		{"8", 1, false},
		{"10mbps", 1_250_000, false},
		{"500kbps", 62_500, false},
		{"500 kbps", 62_500, false},
		{"1gbps", 125_000_000, false},
		{"1.5mbps", 187_500, false},
		{"10MBPS", 1_250_000, false},
		{"fast", 0, true},
		{"10furlongs", 0, true},
	}
	for _, c := range cases {
		got, err := parseBandwidth(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("parseBandwidth(%q) succeeded, want error", c.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseBandwidth(%q): %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("parseBandwidth(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParseBoolString(t *testing.T) {
	truthy := []string{"1", "t", "true", "TRUE", "yes", "on", " On "}
	for _, s := range truthy {
		b, ok := parseBoolString(s)
		if !ok || !b {
			t.Errorf("parseBoolString(%q) = (%v, %v), want (true, true)", s, b, ok)
		}
	}
	falsy := []string{"0", "f", "false", "No", "off"}
	for _, s := range falsy {
		b, ok := parseBoolString(s)
		if !ok || b {
			t.Errorf("parseBoolString(%q) = (%v, %v), want (false, true)", s, b, ok)
		}
	}
	for _, s := range []string{"", "maybe", "2"} {
		if _, ok := parseBoolString(s); ok {
			t.Errorf("parseBoolString(%q) accepted, want rejected", s)
		}
	}
}

func TestParseBoolFlagPrecedence(t *testing.T) {
	t.Setenv("STATICD_TEST_BOOL", "false")
	if got := parseBoolFlag("true", "STATICD_TEST_BOOL", false); !got {
		t.Error("flag value should win over env")
	}
	if got := parseBoolFlag("", "STATICD_TEST_BOOL", true); got {
		t.Error("env value should win over default")
	}
	t.Setenv("STATICD_TEST_BOOL", "")
	if got := parseBoolFlag("", "STATICD_TEST_BOOL", true); !got {
		t.Error("default should apply when nothing is set")
	}
}
