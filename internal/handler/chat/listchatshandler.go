package chat

import (
	"net/http"

	"github.com/lumenlabs/lumen/internal/httputil"
	logic "github.com/lumenlabs/lumen/internal/logic/chat"
	"github.com/lumenlabs/lumen/internal/svc"
)

// List the user's chats
func ListChatsHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := logic.NewListChatsLogic(r.Context(), svcCtx)
		resp, err := l.ListChats()
		if err != nil {
			writeError(w, err)
		} else {
			httputil.OkJSON(w, resp)
		}
	}
}
