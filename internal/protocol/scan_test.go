package protocol

import "testing"

func TestIntAfter(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		key   string
		want  int
		found bool
	}{
		{"simple", "[Live] Stage: 3 Total: 120", "Stage:", 3, true},
		{"second keyword", "[Live] Stage: 3 Total: 120", "Total:", 120, true},
		{"filler before digits", "Grand Total = .. 450 pulses", "Grand Total", 450, true},
		{"negative", "Stage: -2", "Stage:", -2, true},
		{"explicit plus", "Total: +15", "Total:", 15, true},
		{"stops at non-digit", "Total: 12ab34", "Total:", 12, true},
		{"sign only at start", "Total: 1-2", "Total:", 1, true},
		{"keyword absent", "nothing here", "Total:", 0, false},
		{"no digits after keyword", "Total: none", "Total:", 0, false},
		{"bare sign", "Total: - stop", "Total:", 0, false},
		{"digits at end of string", "Total:77", "Total:", 77, true},
		{"first occurrence wins", "Total: 5 Total: 9", "Total:", 5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := IntAfter(tt.src, tt.key)
			if ok != tt.found {
				t.Fatalf("IntAfter(%q, %q) found = %v, want %v", tt.src, tt.key, ok, tt.found)
			}
			if ok && got != tt.want {
				t.Errorf("IntAfter(%q, %q) = %d, want %d", tt.src, tt.key, got, tt.want)
			}
		})
	}
}

func TestFloatAfter(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		key   string
		want  float64
		found bool
	}{
		{"integer literal", "Duration: 1500 ms", "Duration", 1500, true},
		{"decimal", "Active Time: 12.345 s", "Active Time", 12.345, true},
		{"leading dot", "Duration: .5 ms", "Duration", 0.5, true},
		{"negative", "Duration: -3.5", "Duration", -3.5, true},
		{"stops at unit", "Duration: 2.75ms", "Duration", 2.75, true},
		{"keyword absent", "Total: 5", "Duration", 0, false},
		{"no digits", "Duration: n/a", "Duration", 0, false},
		{"double dot fails parse", "Duration: 1.2.3", "Duration", 0, false},
		{"bare dot", "Duration: . ms", "Duration", 0, false},
		{"no exponent support", "Duration: 1e3", "Duration", 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FloatAfter(tt.src, tt.key)
			if ok != tt.found {
				t.Fatalf("FloatAfter(%q, %q) found = %v, want %v", tt.src, tt.key, ok, tt.found)
			}
			if ok && got != tt.want {
				t.Errorf("FloatAfter(%q, %q) = %g, want %g", tt.src, tt.key, got, tt.want)
			}
		})
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "[Live] Stage: 1", "[Live] Stage: 1"},
		{"strips control bytes", "\x1b[2J[Live]\x07 Total: 5\x00", "[2J[Live] Total: 5"},
		{"keeps tabs", "a\tb", "a\tb"},
		{"trims", "   spaced   ", "spaced"},
		{"only control bytes", "\x01\x02\x03", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.in); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
