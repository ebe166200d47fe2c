// Package monitoring serves the read-only REST surface consumed by the
// UI (spec.md §6.3) plus the ambient debug surface ops reaches for
// (healthz, pprof), generalized from the teacher's
// order_service/main.go `initHTTPServer`/`setupRoutes`/`startServer`
// trio: a gin.Engine for the JSON API, a second router on a separate
// internal port for diagnostics, both started as goroutines and
// drained on the same graceful-shutdown deadline.
package monitoring

import (
	"context"
	"fmt"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"iaros/kitlogistics/internal/logging"
	"iaros/kitlogistics/internal/orchestrator"
	"iaros/kitlogistics/internal/persistence"
)

// SnapshotSource is the read side of C8's lock-free summary; satisfied
// by *orchestrator.Orchestrator.
type SnapshotSource interface {
	Snapshot() *orchestrator.Snapshot
	PrometheusRegistry() *prometheus.Registry
}

// Server owns the two HTTP listeners: the gin API on Port and the
// gorilla/mux debug router on DebugPort, kept apart the same way the
// teacher keeps `/api/v1` and `/admin` on logically distinct surfaces.
type Server struct {
	src       SnapshotSource
	logger    *logging.Logger
	apiServer   *http.Server
	debugServer *http.Server
	store       *persistence.Store
}

// SetPersistence attaches the durable round ledger as a fallback source
// for GET /history once C8's in-memory ring has rolled a round out
// (spec.md §6.3 doesn't bound the ring's size; SPEC_FULL.md §12 has
// persistence back the endpoint once it rolls off). Optional — a nil
// store leaves handleHistory reading only the in-memory snapshot.
func (s *Server) SetPersistence(store *persistence.Store) {
	s.store = store
}

// New builds both routers but does not start listening; call Start.
func New(src SnapshotSource, port, debugPort int, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.Nop()
	}
	s := &Server{src: src, logger: logger}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(logger))

	router.GET("/status", s.handleStatus)
	router.GET("/inventory", s.handleInventory)
	router.GET("/history", s.handleHistory)
	router.GET("/metrics", s.handleMetrics)

	s.apiServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	debug := mux.NewRouter()
	debug.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	debug.HandleFunc("/debug/pprof/", pprof.Index)
	debug.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	debug.HandleFunc("/debug/pprof/profile", pprof.Profile)
	debug.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	debug.HandleFunc("/debug/pprof/trace", pprof.Trace)
	debug.PathPrefix("/debug/pprof/").HandlerFunc(pprof.Index)

	s.debugServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", debugPort),
		Handler:      debug,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s
}

// Start runs both listeners in background goroutines, logging (not
// panicking) on ListenAndServe failures other than a clean Shutdown.
func (s *Server) Start() {
	go func() {
		if err := s.apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("monitoring API server stopped", zap.Error(err))
		}
	}()
	go func() {
		if err := s.debugServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("monitoring debug server stopped", zap.Error(err))
		}
	}()
}

// Shutdown drains both listeners within ctx's deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	apiErr := s.apiServer.Shutdown(ctx)
	debugErr := s.debugServer.Shutdown(ctx)
	if apiErr != nil {
		return apiErr
	}
	return debugErr
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleMetrics(c *gin.Context) {
	promhttp.HandlerFor(s.src.PrometheusRegistry(), promhttp.HandlerOpts{}).ServeHTTP(c.Writer, c.Request)
}
