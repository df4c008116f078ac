package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/streamtube/streamtube-server/internal/model"
)

var _ model.Server = (*HTTPServer)(nil)

// HTTPServer runs the API over a listener provided by a security layer.
type HTTPServer struct {
	server  *http.Server
	address string
}

func NewHTTPServer(address string, h http.Handler) *HTTPServer {
	return &HTTPServer{
		server:  &http.Server{Handler: h},
		address: address,
	}
}

// Start listens on the configured address and serves until Stop is called.
// It blocks, so run it in its own goroutine.
func (s *HTTPServer) Start(securityLayer model.SecurityLayer) error {
	listener, err := securityLayer.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.address, err)
	}

	if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve: %w", err)
	}
	return nil
}

// Stop drains in-flight requests until the context expires.
func (s *HTTPServer) Stop(ctx context.Context) error {
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

func (s *HTTPServer) Address() string {
	return s.address
}
