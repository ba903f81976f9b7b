package server

import (
	"context"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/cookpress/backend/config"
	"github.com/cookpress/backend/internal/store"
)

// Server represents the HTTP server. Besides serving requests it runs the
// janitor that expires idle sessions, which is what bounds the in-memory
// store registry.
type Server struct {
	http     *http.Server
	sessions *store.Sessions
	stop     chan struct{}
}

// New creates a new server instance
func New(cfg *config.Config, handler http.Handler, sessions *store.Sessions) *Server {
	return &Server{
		http: &http.Server{
			Addr:    net.JoinHostPort(cfg.ServerHost, cfg.ServerPort),
			Handler: handler,
		},
		sessions: sessions,
		stop:     make(chan struct{}),
	}
}

// Start runs the server until Shutdown is called.
func (s *Server) Start() error {
	go s.purgeLoop()

	log.Printf("[Server] listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server and the session janitor.
func (s *Server) Shutdown(ctx context.Context) error {
	close(s.stop)
	return s.http.Shutdown(ctx)
}

func (s *Server) purgeLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case now := <-ticker.C:
			if n := s.sessions.Purge(now); n > 0 {
				log.Printf("[Server] purged %d idle session(s)", n)
			}
		}
	}
}
