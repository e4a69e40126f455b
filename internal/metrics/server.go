package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Ago95Dev/SA-ADR/types"
)

// Server exposes Prometheus metrics and a health endpoint over HTTP.
//
// Routes:
//   - /metrics: Prometheus exposition of the given gatherer
//   - /health: plain "OK" liveness probe
type Server struct {
	addr     string
	gatherer prometheus.Gatherer
	logger   types.Logger
	server   *http.Server
}

// NewServer creates a metrics HTTP server.
//
// Parameters:
//   - addr: Address to listen on (e.g., ":9090")
//   - gatherer: Prometheus gatherer to expose (uses prometheus.DefaultGatherer if nil)
//   - logger: Logger for server lifecycle messages
//
// Returns:
//   - *Server: Initialized server, not yet listening
func NewServer(addr string, gatherer prometheus.Gatherer, logger types.Logger) *Server {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	return &Server{addr: addr, gatherer: gatherer, logger: logger}
}

// Start begins serving in a background goroutine.
//
// Returns:
//   - error: Listener setup error; serve errors after startup are logged only
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprint(w, "OK\n")
	})

	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("metrics server listening", "addr", s.addr)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("metrics server failed", "error", err)
		}
	}()

	return nil
}

// Shutdown stops the server, waiting up to the context deadline for
// in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}

	return s.server.Shutdown(ctx)
}
