package metric

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Ender-Wang/Swifka-sub000/errors"
)

// Server exposes a registry over HTTP for Prometheus scraping.
type Server struct {
	port     int
	path     string
	registry *MetricsRegistry

	mu     sync.Mutex // protects server field
	server *http.Server
}

// NewServer creates a metrics server. Zero values fall back to port 9090
// and path /metrics.
func NewServer(port int, path string, registry *MetricsRegistry) *Server {
	if path == "" {
		path = "/metrics"
	}
	if port == 0 {
		port = 9090
	}
	return &Server{port: port, path: path, registry: registry}
}

// Start serves until Stop is called or the listener fails. It blocks, so
// callers run it in its own goroutine.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.server != nil {
		s.mu.Unlock()
		return errors.WrapInvalid(
			fmt.Errorf("server already running"),
			"metric.Server", "Start", "double start")
	}
	if s.registry == nil {
		s.mu.Unlock()
		return errors.WrapFatal(
			fmt.Errorf("nil registry"),
			"metric.Server", "Start", "metrics registry not provided")
	}

	mux := http.NewServeMux()
	mux.Handle(s.path, promhttp.HandlerFor(
		s.registry.PrometheusRegistry(),
		promhttp.HandlerOpts{EnableOpenMetrics: true},
	))
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: mux,
	}
	server := s.server
	s.mu.Unlock()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return errors.WrapFatal(err, "metric.Server", "Start",
			fmt.Sprintf("listen on port %d failed", s.port))
	}
	return nil
}

// Stop shuts the server down gracefully, honoring ctx for the drain
// deadline.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server == nil {
		return nil
	}
	err := s.server.Shutdown(ctx)
	s.server = nil
	if err != nil {
		return errors.WrapTransient(err, "metric.Server", "Stop", "shutdown failed")
	}
	return nil
}

// Address returns the scrape URL.
func (s *Server) Address() string {
	return fmt.Sprintf("http://localhost:%d%s", s.port, s.path)
}
