// Package staticserver serves a local directory over HTTP for capture runs.
package staticserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/user/shots/pkg/pipeline"
	"github.com/user/shots/pkg/ports"
)

const shutdownTimeout = 5 * time.Second

// Server implements ports.StaticServer with net/http.
type Server struct {
	logger ports.Logger

	mu   sync.Mutex
	srv  *http.Server
	done chan struct{}
}

// New creates a stopped Server.
func New(logger ports.Logger) *Server {
	return &Server{logger: logger.WithComponent("server")}
}

// Start serves opts.Root on 127.0.0.1 and returns the base URL.
// Port 0 picks a free port.
func (s *Server) Start(opts ports.ServerOptions) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.srv != nil {
		return "", pipeline.ErrServerRunning
	}

	info, err := os.Stat(opts.Root)
	if err != nil {
		return "", &pipeline.ServerError{Err: fmt.Errorf("root %s: %w", opts.Root, err)}
	}
	if !info.IsDir() {
		return "", &pipeline.ServerError{Err: fmt.Errorf("root %s is not a directory", opts.Root)}
	}

	ln, err := net.Listen("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(opts.Port)))
	if err != nil {
		return "", &pipeline.ServerError{Err: fmt.Errorf("listen: %w", err)}
	}

	srv := &http.Server{
		Handler:           Handler(opts.Root, opts.Single),
		ReadHeaderTimeout: 10 * time.Second,
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Static server stopped unexpectedly: %s", err)
		}
	}()

	s.srv = srv
	s.done = done

	url := "http://" + ln.Addr().String()
	s.logger.Info("Serving %s at %s", opts.Root, url)
	return url, nil
}

// Stop shuts the server down and waits for it to exit.
// Stopping a stopped server is a no-op.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.srv == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := s.srv.Shutdown(ctx)
	<-s.done

	s.srv = nil
	s.done = nil
	if err != nil {
		return &pipeline.ServerError{Err: fmt.Errorf("shutdown: %w", err)}
	}
	s.logger.Debug("Static server stopped")
	return nil
}

// Handler serves files below root without caching. With single, requests
// for paths that do not exist get root/index.html.
func Handler(root string, single bool) http.Handler {
	files := http.FileServer(http.Dir(root))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		if single {
			name := filepath.Join(root, filepath.FromSlash(path.Clean("/"+r.URL.Path)))
			if _, err := os.Stat(name); errors.Is(err, os.ErrNotExist) {
				http.ServeFile(w, r, filepath.Join(root, "index.html"))
				return
			}
		}
		files.ServeHTTP(w, r)
	})
}

var _ ports.StaticServer = (*Server)(nil)
