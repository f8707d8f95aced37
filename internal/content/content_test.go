package content

import (
	"strings"
	"testing"
)

func TestParsePlainText(t *testing.T) {
	c := Parse("  hello there  ")
	if c.Kind != KindText {
		t.Fatalf("expected KindText, got %v", c.Kind)
	}
	if c.Text != "hello there" {
		t.Errorf("expected trimmed text, got %q", c.Text)
	}
	if c.Placeholder() != "hello there" {
		t.Errorf("placeholder should pass text through, got %q", c.Placeholder())
	}
}

func TestParseGeneratedImage(t *testing.T) {
	raw, err := EncodeGeneratedImage("https://cdn.example.com/img/abc.png", "a red fox")
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	c := Parse(raw)
	if c.Kind != KindGeneratedImage {
		t.Fatalf("expected KindGeneratedImage, got %v", c.Kind)
	}
	if c.URL != "https://cdn.example.com/img/abc.png" {
		t.Errorf("unexpected url %q", c.URL)
	}
	if c.Caption != "a red fox" {
		t.Errorf("unexpected caption %q", c.Caption)
	}
	if c.Placeholder() != PlaceholderGeneratedImage {
		t.Errorf("expected %q, got %q", PlaceholderGeneratedImage, c.Placeholder())
	}
}

func TestParseUserImages(t *testing.T) {
	raw, err := EncodeUserImages("what is this?", 2)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	c := Parse(raw)
	if c.Kind != KindUserImages {
		t.Fatalf("expected KindUserImages, got %v", c.Kind)
	}
	if c.ImageCount != 2 {
		t.Errorf("expected 2 images, got %d", c.ImageCount)
	}
	if c.Placeholder() != "what is this?" {
		t.Errorf("expected accompanying text, got %q", c.Placeholder())
	}
}

func TestParseUserImagesWithoutText(t *testing.T) {
	raw, err := EncodeUserImages("", 3)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if got := Normalize(raw); got != PlaceholderUserImages {
		t.Errorf("expected %q, got %q", PlaceholderUserImages, got)
	}
}

func TestParseMalformedJSON(t *testing.T) {
	raw := "{not valid json"
	c := Parse(raw)
	if c.Kind != KindText {
		t.Fatalf("malformed JSON must fall back to text, got %v", c.Kind)
	}
	if c.Placeholder() != raw {
		t.Errorf("expected passthrough %q, got %q", raw, c.Placeholder())
	}
}

func TestParseUnknownTypeTag(t *testing.T) {
	raw := `{"type":"something_else","x":1}`
	c := Parse(raw)
	if c.Kind != KindText {
		t.Fatalf("unknown type tag must fall back to text, got %v", c.Kind)
	}
	if !strings.Contains(c.Text, "something_else") {
		t.Errorf("text fallback should keep the raw content, got %q", c.Text)
	}
}

// Normalization must not be recursively reapplied: feeding a placeholder
// back through Normalize behaves as plain-text passthrough.
func TestNormalizeIdempotentOnPlaceholders(t *testing.T) {
	for _, ph := range []string{PlaceholderGeneratedImage, PlaceholderUserImages} {
		if got := Normalize(ph); got != ph {
			t.Errorf("Normalize(%q) = %q, want passthrough", ph, got)
		}
	}
}

func TestNormalizeEmpty(t *testing.T) {
	if got := Normalize(""); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}
