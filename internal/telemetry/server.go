// Package telemetry exposes process and ad metrics over HTTP for the SSH
// server.
package telemetry

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server serves a private Prometheus registry on /metrics.
type Server struct {
	registry *prometheus.Registry
	http     *http.Server
	logger   *log.Logger
}

// NewServer creates a registry with the Go and process collectors already
// registered. Callers add their own collectors through Registry.
func NewServer(addr string, logger *log.Logger) *Server {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	s := &Server{registry: reg, logger: logger}

	mux := http.NewServeMux()
	mux.Handle("/metrics", s.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	s.http = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Registry returns the registry served by s.
func (s *Server) Registry() *prometheus.Registry { return s.registry }

// Handler returns the /metrics handler.
func (s *Server) Handler() http.Handler {
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
}

// Start serves in the background. Listen errors are logged.
func (s *Server) Start() {
	go func() {
		s.logger.Info("serving metrics", "address", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("metrics server failed", "error", err)
		}
	}()
}

// Shutdown stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
