package chat

import (
	"net/http"

	"github.com/lumenlabs/lumen/internal/httputil"
	logic "github.com/lumenlabs/lumen/internal/logic/chat"
	"github.com/lumenlabs/lumen/internal/svc"
)

// Create a new empty chat
func CreateChatHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := logic.NewCreateChatLogic(r.Context(), svcCtx)
		resp, err := l.CreateChat()
		if err != nil {
			writeError(w, err)
		} else {
			httputil.OkJSON(w, resp)
		}
	}
}
