package handlers

import (
	"strings"
	"testing"
)

func TestValidateLanguageCode(t *testing.T) {
	tests := []struct {
		name      string
		code      string
		wantError bool
	}{
		{"two letters", "en", false},
		{"three letters", "fil", false},
		{"region", "pt-BR", false},
		{"empty", "", true},
		{"uppercase", "EN", true},
		{"too long", "en-" + strings.Repeat("a", 8), true},
		{"path traversal", "..", true},
		{"digits", "12", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validateLanguageCode(tt.code)
			if tt.wantError && result == "" {
				t.Error("expected an error, got none")
			}
			if !tt.wantError && result != "" {
				t.Errorf("unexpected error: %s", result)
			}
		})
	}
}

func TestValidateSlug(t *testing.T) {
	tests := []struct {
		name      string
		slug      string
		wantError bool
	}{
		{"simple", "about", false},
		{"hyphenated", "hello-world-2026", false},
		{"empty", "", true},
		{"too long", strings.Repeat("a", 301), true},
		{"uppercase", "About", true},
		{"double hyphen", "a--b", true},
		{"leading hyphen", "-a", true},
		{"dot", "index.php", true},
		{"unicode", "über", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validateSlug(tt.slug)
			if tt.wantError && result == "" {
				t.Error("expected an error, got none")
			}
			if !tt.wantError && result != "" {
				t.Errorf("unexpected error: %s", result)
			}
		})
	}
}
