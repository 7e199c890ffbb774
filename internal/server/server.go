// Package server exposes activities, generation, grading and discussion over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dhabedank/activity-parser/internal/activity"
	"github.com/dhabedank/activity-parser/internal/discussion"
	"github.com/dhabedank/activity-parser/internal/generate"
	"github.com/dhabedank/activity-parser/internal/grading"
	"github.com/dhabedank/activity-parser/internal/logger"
	"github.com/dhabedank/activity-parser/internal/reading"
)

const shutdownTimeout = 10 * time.Second

// ActivityStore is the document source the handlers read from.
type ActivityStore interface {
	Load(slug string) (activity.Activity, error)
	LoadAll() ([]activity.Activity, error)
	Reset(protected []string) ([]string, error)
}

// Options wires the server's collaborators. Store and Grader are required;
// a nil Generator or Discussion makes those endpoints answer 503.
type Options struct {
	Store      ActivityStore
	Generator  *generate.Generator
	Grader     grading.Grader
	Discussion *discussion.Orchestrator
	Logger     logger.Logger

	AssetsDir       string
	AssetsURLPrefix string // Public path of AssetsDir, "/assets" by default
	Protected       []string
	ProtectedAssets []string
	Presets         map[string][]string // Upload slug -> ready-made activity slugs
	AllowedOrigins  []string

	// Registry receives the server's metrics; a fresh registry is used when nil.
	Registry *prometheus.Registry
}

// Server is the HTTP API.
type Server struct {
	opts    Options
	log     logger.Logger
	metrics *Metrics
	router  *gin.Engine
}

// New builds the router.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}
	if opts.AssetsURLPrefix == "" {
		opts.AssetsURLPrefix = "/assets"
	}

	s := &Server{
		opts:    opts,
		log:     opts.Logger,
		metrics: NewMetrics(opts.Registry),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.MaxMultipartMemory = reading.MaxPDFSize

	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(s.log))
	router.Use(s.metrics.Middleware())
	if len(s.opts.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins: s.opts.AllowedOrigins,
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Content-Type", "X-Request-ID"},
			MaxAge:       12 * time.Hour,
		}))
	}

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.opts.Registry, promhttp.HandlerOpts{})))
	if s.opts.AssetsDir != "" {
		router.Static(s.opts.AssetsURLPrefix, s.opts.AssetsDir)
	}

	api := router.Group("/api")
	{
		api.GET("/health", s.health)
		api.GET("/activities", s.listActivities)
		api.GET("/activities/:slug", s.getActivity)
		api.POST("/generate-activity", s.generateActivity)
		api.POST("/upload-pdf", s.uploadPDF)
		api.POST("/upload-youtube", s.uploadYouTube)
		api.POST("/check-answer", s.checkAnswer)
		api.POST("/chat", s.chat)
		api.POST("/reset-session", s.resetSession)
	}
	return router
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Server listening", logger.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
