package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/lumenlabs/lumen/internal/config"
	"github.com/lumenlabs/lumen/internal/handler"
	chathandler "github.com/lumenlabs/lumen/internal/handler/chat"
	"github.com/lumenlabs/lumen/internal/logging"
	"github.com/lumenlabs/lumen/internal/middleware"
	"github.com/lumenlabs/lumen/internal/svc"
)

// Run starts the HTTP server and blocks until the context is cancelled
// or the listener fails.
func Run(ctx context.Context, svcCtx *svc.ServiceContext) error {
	c := svcCtx.Config

	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(corsMiddleware(c))

	r.Get("/health", handler.HealthCheckHandler(svcCtx))

	// The local storage driver serves uploaded images as static files;
	// the s3 driver returns bucket URLs instead.
	if c.Storage.Driver != "s3" {
		fs := http.StripPrefix("/chat-images/", http.FileServer(http.Dir(c.Storage.LocalDir)))
		r.Get("/chat-images/*", fs.ServeHTTP)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTMiddleware(c.Auth.AccessSecret))

			r.Post("/chats", chathandler.CreateChatHandler(svcCtx))
			r.Get("/chats", chathandler.ListChatsHandler(svcCtx))
			r.Get("/chats/{chatId}/messages", chathandler.ListMessagesHandler(svcCtx))
			r.Post("/chat", chathandler.SendMessageHandler(svcCtx))
		})
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", c.Host, c.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Infof("Server listening on http://%s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// corsMiddleware allows the configured browser origins (all origins
// when none are configured, matching local development).
func corsMiddleware(c *config.Config) func(http.Handler) http.Handler {
	allowed := map[string]bool{}
	for _, origin := range strings.Split(c.Security.AllowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			allowed[origin] = true
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && (len(allowed) == 0 || allowed[origin]) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
