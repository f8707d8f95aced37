package handler

import (
	"net/http"

	"github.com/lumenlabs/lumen/internal/httputil"
	"github.com/lumenlabs/lumen/internal/svc"
)

// HealthCheckHandler reports liveness and database reachability
func HealthCheckHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svcCtx.Store.DB().PingContext(r.Context()); err != nil {
			httputil.ErrorWithCode(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		httputil.OkJSON(w, map[string]string{"status": "ok"})
	}
}
