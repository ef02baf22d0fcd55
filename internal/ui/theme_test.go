package ui

import (
	"testing"
	"unicode/utf8"
)

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	if len(names) != 3 {
		t.Fatalf("ThemeNames() returned %d names, want 3", len(names))
	}
	if names[0] != "Slate" {
		t.Fatalf("ThemeNames()[0] = %q, want Slate", names[0])
	}
}

func TestNextTheme(t *testing.T) {
	if got := NextTheme("Slate"); got != "Nightfox" {
		t.Fatalf("NextTheme(Slate) = %q, want Nightfox", got)
	}
	if got := NextTheme("Kanagawa"); got != "Slate" {
		t.Fatalf("NextTheme(Kanagawa) = %q, want Slate (wrap)", got)
	}
	if got := NextTheme("Unknown"); got != "Slate" {
		t.Fatalf("NextTheme(Unknown) = %q, want Slate", got)
	}
}

func TestGetTheme(t *testing.T) {
	if got := GetTheme("Kanagawa").Name; got != "Kanagawa" {
		t.Fatalf("GetTheme(Kanagawa).Name = %q", got)
	}
	if got := GetTheme("Unknown").Name; got != "Slate" {
		t.Fatalf("GetTheme(Unknown).Name = %q, want Slate (fallback)", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("truncate = %q, want unchanged", got)
	}
	if got := truncate("a long product name", 10); got != "a long ..." {
		t.Fatalf("truncate = %q", got)
	}
}

func TestTruncate_CountsRunesNotBytes(t *testing.T) {
	// Twelve two-byte runes; a byte-based cut would split one in half.
	name := "ññññññññññññ"
	got := truncate(name, 10)
	if got != "ñññññññ..." {
		t.Fatalf("truncate = %q, want seven runes plus ellipsis", got)
	}
	if !utf8.ValidString(got) {
		t.Fatalf("truncate produced invalid UTF-8: %q", got)
	}
	if got := truncate("ññññ", 10); got != "ññññ" {
		t.Fatalf("truncate = %q, want short multibyte name unchanged", got)
	}
}
