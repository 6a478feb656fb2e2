package postgres

import "testing"

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "red shoes", "red shoes"},
		{"percent", "100% cotton", `100\% cotton`},
		{"underscore", "usb_c cable", `usb\_c cable`},
		{"backslash", `a\b`, `a\\b`},
		{"mixed", `50%_off\now`, `50\%\_off\\now`},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := escapeLike(tt.input); got != tt.want {
				t.Errorf("escapeLike(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
