package slug

import (
	"strings"
	"testing"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"two words", "Hello World", "hello-world"},
		{"punctuation", "Hello, World & Co", "hello-world-co"},
		{"apostrophe joins", "How's it going?", "hows-it-going"},
		{"typographic apostrophe", "Don’t panic", "dont-panic"},
		{"accents folded", "Café Résumé Noël", "cafe-resume-noel"},
		{"umlauts folded", "Über die Brücke", "uber-die-brucke"},
		{"non latin dropped", "Hello 世界 World", "hello-world"},
		{"dots split", "Version 2.0.1", "version-2-0-1"},
		{"runs collapse", "  --hello -- world--  ", "hello-world"},
		{"tabs and newlines", "hello\tworld\nagain", "hello-world-again"},
		{"date", "2026-02-25", "2026-02-25"},
		{"empty", "", ""},
		{"only symbols", "!@#$%^&*()", ""},
		{"single letter", "A", "a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Generate(tt.input); got != tt.want {
				t.Errorf("Generate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestGenerateProducesValidSlugs(t *testing.T) {
	inputs := []string{"What is a Block?", "Ça va, très bien", "posts_grid", "UPPER case"}
	for _, in := range inputs {
		got := Generate(in)
		if !Valid(got) {
			t.Errorf("Generate(%q) = %q, not a valid slug", in, got)
		}
		if again := Generate(got); again != got {
			t.Errorf("Generate(%q) = %q, not idempotent", got, again)
		}
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		slug string
		want bool
	}{
		{"hello-world", true},
		{"a", true},
		{"2026", true},
		{"", false},
		{"Hello", false},
		{"hello--world", false},
		{"-hello", false},
		{"hello-", false},
		{"hello_world", false},
		{"héllo", false},
		{strings.Repeat("a", MaxLen), true},
		{strings.Repeat("a", MaxLen+1), false},
	}
	for _, tt := range tests {
		if got := Valid(tt.slug); got != tt.want {
			t.Errorf("Valid(%q) = %v, want %v", tt.slug, got, tt.want)
		}
	}
}
