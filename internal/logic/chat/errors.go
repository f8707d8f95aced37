package chat

import "errors"

// Validation failures are rejected before any side effect and map to
// HTTP 400 at the handler layer.
var (
	ErrMessageRequired = errors.New("a prompt message or image(s) are required")
	ErrChatIdRequired  = errors.New("chatId is required")
)

// IsValidationError reports whether err is a caller error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrMessageRequired) || errors.Is(err, ErrChatIdRequired)
}
