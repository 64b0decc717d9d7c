// Package microservice holds the shared runtime plumbing for the deployable
// services in this repository: a base HTTP server with graceful shutdown and
// the common runtime configuration block.
package microservice

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// BaseConfig holds the runtime operational settings every service shares.
type BaseConfig struct {
	LogLevel  string
	HTTPPort  string
	ProjectID string
}

// BaseServer wraps an http.Server with a mux, logging and graceful shutdown.
type BaseServer struct {
	logger   zerolog.Logger
	httpPort string
	server   *http.Server
	mux      *http.ServeMux
}

// NewBaseServer creates a server listening on the given port (":8080" form).
// A /healthz endpoint is registered by default.
func NewBaseServer(logger zerolog.Logger, httpPort string) *BaseServer {
	mux := http.NewServeMux()
	s := &BaseServer{
		logger:   logger,
		httpPort: httpPort,
		mux:      mux,
		server: &http.Server{
			Addr:              httpPort,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return s
}

// Mux exposes the underlying mux so services can register their routes.
func (s *BaseServer) Mux() *http.ServeMux {
	return s.mux
}

// GetHTTPPort returns the configured listen address.
func (s *BaseServer) GetHTTPPort() string {
	return s.httpPort
}

// Start blocks serving HTTP until the server is shut down.
func (s *BaseServer) Start() error {
	listener, err := net.Listen("tcp", s.httpPort)
	if err != nil {
		return err
	}
	s.logger.Info().Str("address", listener.Addr().String()).Msg("HTTP server listening.")

	if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *BaseServer) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		s.logger.Error().Err(err).Msg("HTTP server shutdown failed.")
		return
	}
	s.logger.Info().Msg("HTTP server shut down gracefully.")
}
