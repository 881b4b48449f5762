package main

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncate(t *testing.T) {
	short := "cat.png"
	if got := truncate(short); got != short {
		t.Errorf("truncate(%q) = %q, want unchanged", short, got)
	}

	dataURI := "data:image/png;base64," + strings.Repeat("A", 200)
	got := truncate(dataURI)
	if len(got) != 75 || !strings.HasSuffix(got, "...") {
		t.Errorf("truncate(data URI) = %q, want 72 characters plus ellipsis", got)
	}
}

func TestTruncate_KeepsRunesIntact(t *testing.T) {
	name := strings.Repeat("ä", 100) + ".png"
	got := truncate(name)
	if !utf8.ValidString(got) {
		t.Fatalf("truncate produced invalid UTF-8: %q", got)
	}
	if want := strings.Repeat("ä", 72) + "..."; got != want {
		t.Fatalf("truncate(%q) = %q, want %q", name, got, want)
	}

	short := "größe.png"
	if got := truncate(short); got != short {
		t.Errorf("truncate(%q) = %q, want unchanged", short, got)
	}
}
