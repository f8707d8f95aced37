// Package content decodes the message content column into a tagged
// variant. A message holds either plain text or a JSON object
// discriminated by a "type" field: "image" for assistant-generated
// images, "user_images" for user-submitted image batches. The variant
// is decoded once at the read boundary; nothing else in the codebase
// re-parses content JSON.
package content

import (
	"encoding/json"
	"strings"
)

// Kind discriminates the content variant
type Kind int

const (
	KindText Kind = iota
	KindGeneratedImage
	KindUserImages
)

const (
	// TypeImage tags an assistant-generated image payload
	TypeImage = "image"
	// TypeUserImages tags a user-submitted image batch
	TypeUserImages = "user_images"

	// PlaceholderGeneratedImage substitutes for generated images in
	// model input; image bytes and URLs are never resent upstream.
	PlaceholderGeneratedImage = "[Generated Image]"
	// PlaceholderUserImages substitutes for user image batches that
	// carry no accompanying text.
	PlaceholderUserImages = "[Images uploaded]"
)

// Content is the decoded form of a message's content column.
type Content struct {
	Kind Kind

	// Text is the plain text for KindText, or the accompanying text
	// for KindUserImages (may be empty).
	Text string

	// URL and Caption are set for KindGeneratedImage.
	URL     string
	Caption string

	// ImageCount is set for KindUserImages.
	ImageCount int
}

// envelope is the raw JSON union stored in the content column.
type envelope struct {
	Type       string `json:"type"`
	URL        string `json:"url"`
	Caption    string `json:"caption"`
	Text       string `json:"text"`
	ImageCount int    `json:"imageCount"`
}

// Parse decodes raw stored content into its tagged variant. Anything
// that is not a well-formed JSON object with a known type tag is plain
// text; malformed JSON-looking input must never fail.
func Parse(raw string) Content {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "{") {
		return Content{Kind: KindText, Text: trimmed}
	}

	var env envelope
	if err := json.Unmarshal([]byte(trimmed), &env); err != nil {
		return Content{Kind: KindText, Text: trimmed}
	}

	switch env.Type {
	case TypeImage:
		return Content{Kind: KindGeneratedImage, URL: env.URL, Caption: env.Caption}
	case TypeUserImages:
		return Content{Kind: KindUserImages, Text: strings.TrimSpace(env.Text), ImageCount: env.ImageCount}
	default:
		return Content{Kind: KindText, Text: trimmed}
	}
}

// Placeholder returns the model-safe text stand-in for this content:
// the text itself for plain text, a fixed placeholder for generated
// images, and the accompanying text (or a fixed placeholder) for user
// image batches.
func (c Content) Placeholder() string {
	switch c.Kind {
	case KindGeneratedImage:
		return PlaceholderGeneratedImage
	case KindUserImages:
		if c.Text != "" {
			return c.Text
		}
		return PlaceholderUserImages
	default:
		return c.Text
	}
}

// Normalize is the one-step form: raw stored content to its model-safe
// placeholder text.
func Normalize(raw string) string {
	return Parse(raw).Placeholder()
}

// EncodeGeneratedImage renders the stored form of an assistant image message.
func EncodeGeneratedImage(url, caption string) (string, error) {
	b, err := json.Marshal(struct {
		Type    string `json:"type"`
		URL     string `json:"url"`
		Caption string `json:"caption"`
	}{TypeImage, url, caption})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// EncodeUserImages renders the stored form of a user turn that carries
// image attachments.
func EncodeUserImages(text string, count int) (string, error) {
	b, err := json.Marshal(struct {
		Type       string `json:"type"`
		Text       string `json:"text"`
		ImageCount int    `json:"imageCount"`
	}{TypeUserImages, text, count})
	if err != nil {
		return "", err
	}
	return string(b), nil
}
