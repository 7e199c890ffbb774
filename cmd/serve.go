package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/dhabedank/activity-parser/internal/discussion"
	"github.com/dhabedank/activity-parser/internal/generate"
	"github.com/dhabedank/activity-parser/internal/grading"
	"github.com/dhabedank/activity-parser/internal/logger"
	"github.com/dhabedank/activity-parser/internal/server"
)

var (
	servePort int
	serveDev  bool
)

// ServeCmd runs the HTTP API used by the web client.
var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve activities, generation, grading and discussion over HTTP.

Without a usable model the server still lists activities and grades answers
by keywords; generation, uploads and chat answer 503.

Endpoints:
  GET  /api/health              Liveness
  GET  /api/activities          Activity summaries
  GET  /api/activities/:slug    One activity
  POST /api/generate-activity   Generate from reading text
  POST /api/upload-pdf          Generate from an uploaded PDF
  POST /api/upload-youtube      Generate from a YouTube transcript
  POST /api/check-answer        Grade an answer
  POST /api/chat                One discussion turn
  POST /api/reset-session       Delete generated files
  GET  /metrics                 Prometheus metrics`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	ServeCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (default from config or PORT)")
	ServeCmd.Flags().BoolVar(&serveDev, "dev", false, "Human-readable console logs")
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := loadConfig(cmd); err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = servePort
	}
	if serveDev {
		cfg.Log.Development = true
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer log.Sync()

	policy, err := collisionPolicy()
	if err != nil {
		return err
	}
	st := openStore()
	if err := st.Init(); err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.AssetsDir, 0o755); err != nil {
		return fmt.Errorf("failed to create assets directory: %w", err)
	}

	opts := server.Options{
		Store:           st,
		Logger:          log,
		AssetsDir:       cfg.AssetsDir,
		Protected:       cfg.Protected,
		ProtectedAssets: cfg.ProtectedAssets,
		Presets:         cfg.Presets,
		AllowedOrigins:  cfg.Server.AllowedOrigins,
		Registry:        prometheus.NewRegistry(),
	}

	var primary grading.Grader
	adapter, err := newAdapter()
	if err != nil {
		log.Warn("No LLM available, generation and chat are disabled", logger.Error(err))
	} else {
		log.Info("Using LLM", logger.String("adapter", adapter.Name()), logger.String("model", cfg.Model))
		primary = grading.ModelGrader{Adapter: adapter}
		opts.Generator = generate.New(generate.Options{
			Adapter:     adapter,
			Store:       st,
			Policy:      policy,
			Logger:      log,
			Concurrency: cfg.Concurrency,
		})
		opts.Discussion = &discussion.Orchestrator{Adapter: adapter}
	}
	opts.Grader = grading.New(primary, log)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("Starting server",
		logger.String("activities_dir", cfg.ActivitiesDir),
		logger.String("assets_dir", cfg.AssetsDir),
		logger.String("collision_policy", cfg.CollisionPolicy),
	)
	return server.New(opts).Run(ctx, cfg.Addr())
}
