package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/crowdguardian/sentinel/internal/analysis"
	"github.com/crowdguardian/sentinel/internal/config"
	"github.com/crowdguardian/sentinel/internal/errors"
	"github.com/crowdguardian/sentinel/internal/health"
	"github.com/crowdguardian/sentinel/internal/logger"
)

// Server is the Sentinel analysis API service.
type Server struct {
	config       *config.ServerConfig
	router       *mux.Router
	httpServer   *http.Server
	logger       *logrus.Logger
	analyzer     *analysis.Analyzer
	history      *HistoryStore
	alerts       *AlertNotifier
	healthMgr    *health.Manager
	errorHandler *errors.ErrorHandler
	limiter      *rate.Limiter
}

// New creates a new server instance. redisClient may be nil, in which case
// analytics fall back to synthetic series and alert cooldowns are local.
func New(cfg *config.ServerConfig, alertCfg config.AlertsConfig, log *logrus.Logger, analyzer *analysis.Analyzer, redisClient *redis.Client) *Server {
	s := &Server{
		config:       cfg,
		router:       mux.NewRouter(),
		logger:       log,
		analyzer:     analyzer,
		history:      NewHistoryStore(redisClient, log),
		alerts:       NewAlertNotifier(alertCfg, redisClient, log),
		healthMgr:    health.NewManager(log),
		errorHandler: errors.NewErrorHandler(log),
		limiter:      rate.NewLimiter(rate.Limit(cfg.AnalyzeRate), cfg.AnalyzeBurst),
	}

	s.registerHealthCheckers(redisClient)
	s.setupRoutes()

	return s
}

// Router exposes the configured router, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the HTTP server until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	go s.healthMgr.StartPeriodicChecks(ctx, 30*time.Second)

	s.logger.WithField("port", s.config.Port).Info("Starting Sentinel API server")

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed to start: %w", err)
	case <-ctx.Done():
		return s.Shutdown()
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	s.logger.Info("Shutting down API server")

	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	s.logger.Info("API server shutdown complete")
	return nil
}

// setupRoutes configures all routes.
func (s *Server) setupRoutes() {
	// Global middleware
	s.router.Use(s.requestIDMiddleware)
	s.router.Use(logger.RequestLoggerMiddleware(s.logger))
	s.router.Use(s.recoveryMiddleware)
	s.router.Use(s.metricsMiddleware)
	s.router.Use(s.corsMiddleware)

	// Health endpoints
	healthHandler := health.NewHandler(s.healthMgr)
	s.router.HandleFunc("/health", healthHandler.HandleHealth).Methods("GET")
	s.router.HandleFunc("/live", healthHandler.HandleLive).Methods("GET")

	// Version endpoint
	s.router.HandleFunc("/version", s.handleVersion).Methods("GET")

	// API endpoints
	apiRouter := s.router.PathPrefix("/api").Subrouter()
	apiRouter.Handle("/analyze", s.rateLimitMiddleware(http.HandlerFunc(s.handleAnalyze))).Methods("POST")
	apiRouter.HandleFunc("/analytics", s.handleAnalytics).Methods("GET")
	apiRouter.HandleFunc("/reports/download", s.handleReportDownload).Methods("GET")

	// Fallbacks
	s.router.NotFoundHandler = http.HandlerFunc(s.errorHandler.HandleNotFound)
	s.router.MethodNotAllowedHandler = http.HandlerFunc(s.errorHandler.HandleMethodNotAllowed)
}

// registerHealthCheckers wires the health checks for this deployment.
func (s *Server) registerHealthCheckers(redisClient *redis.Client) {
	if redisClient != nil {
		s.healthMgr.Register(health.NewRedisChecker(redisClient))
	}

	s.healthMgr.Register(health.NewDetectorChecker(func(ctx context.Context) error {
		// A tiny synthetic upload must flow through the full pipeline.
		_, err := s.analyzer.AnalyzeVideo([]byte("health-probe"))
		return err
	}))
}
