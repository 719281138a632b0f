package api

import (
	"context"
	"net/http"
	"time"
)

// Server wraps the HTTP server for the intake API.
type Server struct {
	handler http.Handler
	server  *http.Server
}

// NewServer creates the API server around a configured router.
func NewServer(handler http.Handler) *Server {
	return &Server{handler: handler}
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe(addr string) error {
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.handler,
		// Request bodies are small JSON documents; keep timeouts tight.
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.handler
}
