package chat

import (
	"net/http"

	"github.com/lumenlabs/lumen/internal/httputil"
	logic "github.com/lumenlabs/lumen/internal/logic/chat"
	"github.com/lumenlabs/lumen/internal/svc"
	"github.com/lumenlabs/lumen/internal/types"
)

// Send a user turn and return the assistant reply
func SendMessageHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.SendMessageRequest
		if err := httputil.Parse(r, &req); err != nil {
			httputil.BadRequest(w, err.Error())
			return
		}

		l := logic.NewSendMessageLogic(r.Context(), svcCtx)
		resp, err := l.SendMessage(&req)
		if err != nil {
			writeError(w, err)
		} else {
			httputil.OkJSON(w, resp)
		}
	}
}
