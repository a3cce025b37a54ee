package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/quantx/pulse/internal/api/handler"
	"github.com/quantx/pulse/internal/api/middleware"
	"github.com/quantx/pulse/internal/metrics"
)

// Server is the HTTP server for the analytics API
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	mux        *http.ServeMux
}

// Config holds server configuration
type Config struct {
	Host        string
	Port        int
	APIKey      string
	MetricsPath string
}

// Handlers bundles the endpoint handlers wired into the server.
type Handlers struct {
	Analytics *handler.AnalyticsHandler
	Strategy  *handler.StrategyHandler
	Backtest  *handler.BacktestHandler
	Dashboard *handler.DashboardHandler
	Insight   *handler.InsightHandler
}

// NewServer creates a new HTTP server. The metrics registry may be nil
// to disable the metrics endpoint and HTTP instrumentation.
func NewServer(cfg Config, h Handlers, reg *metrics.Registry, logger *zap.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:      mux,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
		mux:    mux,
	}

	s.setupRoutes(cfg, h, reg)
	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(cfg Config, h Handlers, reg *metrics.Registry) {
	api := http.NewServeMux()
	api.HandleFunc("POST /api/probability", h.Analytics.Probability)
	api.HandleFunc("POST /api/greeks", h.Analytics.Greeks)
	api.HandleFunc("POST /api/volatility", h.Analytics.Volatility)
	api.HandleFunc("POST /api/oi", h.Analytics.OI)
	api.HandleFunc("POST /api/market", h.Analytics.Market)
	api.HandleFunc("POST /api/consensus", h.Analytics.Consensus)
	api.HandleFunc("POST /api/strategy/run", h.Strategy.Run)
	api.HandleFunc("GET /api/strategy", h.Strategy.List)
	api.HandleFunc("POST /api/backtest", h.Backtest.Create)
	api.HandleFunc("GET /api/backtest", h.Backtest.List)
	api.HandleFunc("GET /api/backtest/{id}", func(w http.ResponseWriter, r *http.Request) {
		h.Backtest.Get(w, r, r.PathValue("id"))
	})
	api.HandleFunc("GET /api/dashboard", h.Dashboard.Summary)
	api.HandleFunc("POST /api/insight", h.Insight.Narrate)

	var protected http.Handler = api
	protected = middleware.APIKeyAuth(cfg.APIKey)(protected)
	if reg != nil {
		protected = metrics.HTTPMiddleware(reg)(protected)
	}
	protected = metrics.LoggingMiddleware(s.logger)(protected)

	s.mux.Handle("/api/", protected)
	s.mux.HandleFunc("GET /api/health", s.handleHealth)
	if reg != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		s.mux.Handle("GET "+path, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
