package chat

import (
	"errors"
	"net/http"

	"github.com/lumenlabs/lumen/internal/db"
	"github.com/lumenlabs/lumen/internal/httputil"
	logic "github.com/lumenlabs/lumen/internal/logic/chat"
)

// writeError maps logic errors onto terse JSON error payloads:
// validation failures are 400, unknown chats are 404, everything else
// is a generic 500.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case logic.IsValidationError(err):
		httputil.BadRequest(w, err.Error())
	case errors.Is(err, db.ErrNotFound):
		httputil.NotFound(w, "chat not found")
	default:
		httputil.InternalError(w, "")
	}
}
