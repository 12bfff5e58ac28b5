package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

// Server serves the watch feed over HTTP. The feed lives at /watch.
type Server struct {
	feed   *Feed
	server *http.Server
	logger *log.Logger
}

// NewServer wraps a feed in an HTTP server listening on addr.
func NewServer(addr string, feed *Feed, logger *log.Logger) *Server {
	mux := http.NewServeMux()
	mux.Handle("/watch", feed.Handler())

	return &Server{
		feed:   feed,
		logger: logger,
		server: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Start begins serving in the background.
func (s *Server) Start() {
	s.logger.Info("watch feed listening", "address", s.server.Addr)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("watch feed error", "error", err)
		}
	}()
}

// Shutdown closes the feed and stops the listener.
func (s *Server) Shutdown() error {
	s.feed.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *Server) Addr() string {
	return s.server.Addr
}
