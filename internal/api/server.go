package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/tumorboard-analysis-server/internal/domain"
	"github.com/tumorboard-analysis-server/internal/middleware"
)

// Analyzer runs the report-generation pipeline for one request.
type Analyzer interface {
	Analyze(ctx context.Context, caseCtx domain.CaseContext, records []domain.ArticleRecord) (*domain.Analysis, error)
}

// Server represents the HTTP server
type Server struct {
	config   *domain.Config
	analyzer Analyzer
	log      *logrus.Logger
	router   *gin.Engine
	server   *http.Server
}

// NewServer creates a new HTTP server instance
func NewServer(cfg *domain.Config, analyzer Analyzer, logger *logrus.Logger) *Server {
	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CorrelationID())

	s := &Server{
		config:   cfg,
		analyzer: analyzer,
		log:      logger,
		router:   router,
	}

	s.setupRoutes()

	return s
}

// Start starts the HTTP server and blocks until the context is canceled
func (s *Server) Start(ctx context.Context) error {
	cfg := s.config.Server
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return s.server.Shutdown(shutdownCtx)
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	analysis := s.router.Group("/")
	if s.config.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(&s.config.RateLimit, s.log)
		analysis.Use(limiter.Middleware())
	}

	// Root POST keeps legacy function-URL callers working; the versioned
	// path is the one new callers should use.
	analysis.POST("/", s.handleFinalAnalysis)
	analysis.POST("/api/v1/analysis", s.handleFinalAnalysis)
}

// corsMiddleware answers preflight requests and adds permissive
// cross-origin headers to every response; the frontend is served from a
// different origin.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Header("Access-Control-Max-Age", "3600")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
