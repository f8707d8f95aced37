// Package ai wraps the completion service. The rest of the codebase
// talks to the Client interface; the OpenAI implementation lives in
// openai.go and a fake is used in tests.
package ai

import "context"

// Role tags a prompt item
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Item is one role-tagged entry of the model input sequence. Images
// holds base64-encoded JPEG attachments; only the current user turn
// ever carries them.
type Item struct {
	Role   Role
	Text   string
	Images []string
}

// Request is a single completion call
type Request struct {
	Model string
	Items []Item

	// EnableTools turns on web search and image generation for the
	// main reply path. Folding and title calls leave it off.
	EnableTools bool

	// ReasoningEffort is "" (omitted), "medium", or "high".
	ReasoningEffort string

	// MaxOutputTokens bounds the response length when > 0.
	MaxOutputTokens int64
}

// Result is the completion outcome. ImageBase64 is non-empty when the
// model invoked image generation; Text then carries the caption.
type Result struct {
	Text        string
	ImageBase64 string
}

// Client is the completion service boundary
type Client interface {
	Complete(ctx context.Context, req *Request) (*Result, error)
}
