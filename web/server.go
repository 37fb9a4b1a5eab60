// Package web is the HTTP surface of the chat room: account endpoints,
// the websocket upgrade, live-message search, and the embedded client.
package web

import (
	"context"
	"embed"
	"log/slog"
	"net/http"
	"time"
)

//go:embed static
var staticFS embed.FS

// Server wraps the http.Server with the room's routes.
type Server struct {
	log  *slog.Logger
	http *http.Server
}

func NewServer(log *slog.Logger, addr string, handlers *Handlers) *Server {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /register", handlers.Register)
	mux.HandleFunc("POST /login", handlers.Login)
	mux.HandleFunc("GET /chat", handlers.Chat)
	mux.HandleFunc("GET /search", handlers.Search)
	mux.HandleFunc("GET /healthz", handlers.Health)
	mux.Handle("GET /static/", http.FileServerFS(staticFS))
	mux.HandleFunc("GET /{$}", handlers.Index)

	return &Server{
		log: log,
		http: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// ListenAndServe blocks until the listener fails or Shutdown runs.
func (s *Server) ListenAndServe() error {
	s.log.Info("HTTP server listening", "addr", s.http.Addr)
	return s.http.ListenAndServe()
}

// Shutdown stops accepting connections and drains in-flight requests.
// Hijacked websocket sessions stop through the base context instead.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
