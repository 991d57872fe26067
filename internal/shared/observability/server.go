package observability

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthStatus is the payload served on /health.
type HealthStatus struct {
	Status       string `json:"status"`
	FilesScanned int    `json:"files_scanned"`
	Diagnostics  int    `json:"diagnostics"`
}

// Server exposes /metrics and /health while watch mode is running.
type Server struct {
	addr   string
	health func() HealthStatus
	server *http.Server
}

func NewServer(addr string, health func() HealthStatus) *Server {
	return &Server{addr: addr, health: health}
}

func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		status := s.health()
		w.Header().Set("Content-Type", "application/json")
		if status.Status != "up" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(status)
	})

	s.server = &http.Server{Addr: s.addr, Handler: mux}

	slog.Info("observability server starting", "addr", s.addr)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("observability server failed", "error", err)
		}
	}()

	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
