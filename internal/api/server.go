// Package api exposes the engine's balance snapshots over HTTP. It is a
// read-only adapter; the ledger itself has no network surface.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/corefin/payproc/internal/domain"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payproc_http_requests_total",
		Help: "Total HTTP requests processed, labeled by status code",
	}, []string{"method", "endpoint", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "payproc_http_request_duration_seconds",
		Help:    "Latency distribution of HTTP requests",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"method", "endpoint"})
)

// SnapshotSource is the read side of the engine the server publishes.
type SnapshotSource interface {
	Snapshots() []domain.BalanceSnapshot
	SnapshotFor(client domain.ClientID) (domain.BalanceSnapshot, bool)
}

// Server serves balance snapshots and prometheus metrics.
type Server struct {
	src    SnapshotSource
	logger *zap.Logger
	http   *http.Server
}

// NewServer builds the server with its routes registered.
func NewServer(addr string, src SnapshotSource, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{src: src, logger: logger}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/balances", s.handleBalances).Methods(http.MethodGet)
	r.HandleFunc("/balances/{client}", s.handleBalance).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	s.http = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	return s
}

// Start blocks serving requests until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("balance API listening", zap.String("addr", s.http.Addr))
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleBalances(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(httpRequestDuration.WithLabelValues(http.MethodGet, "/balances"))
	defer timer.ObserveDuration()

	snapshots := s.src.Snapshots()

	httpRequestsTotal.WithLabelValues(http.MethodGet, "/balances", "200").Inc()
	respondWithJSON(w, http.StatusOK, snapshots)
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(httpRequestDuration.WithLabelValues(http.MethodGet, "/balances/{client}"))
	defer timer.ObserveDuration()

	raw := mux.Vars(r)["client"]
	client, err := strconv.ParseUint(raw, 10, 16)
	if err != nil {
		httpRequestsTotal.WithLabelValues(http.MethodGet, "/balances/{client}", "400").Inc()
		respondWithError(w, http.StatusBadRequest, "Invalid client id")
		return
	}

	snapshot, ok := s.src.SnapshotFor(domain.ClientID(client))
	if !ok {
		httpRequestsTotal.WithLabelValues(http.MethodGet, "/balances/{client}", "404").Inc()
		respondWithError(w, http.StatusNotFound, "Unknown client")
		return
	}

	httpRequestsTotal.WithLabelValues(http.MethodGet, "/balances/{client}", "200").Inc()
	respondWithJSON(w, http.StatusOK, snapshot)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}
