package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/dhabedank/activity-parser/internal/config"
	"github.com/dhabedank/activity-parser/internal/llm"
	"github.com/dhabedank/activity-parser/internal/logger"
	"github.com/dhabedank/activity-parser/internal/store"
	"github.com/dhabedank/activity-parser/internal/version"
)

// Flags shared by every command.
var (
	configFile string
	dirFlag    string
	llmFlag    string
	modelFlag  string
	logLevel   string
)

// cfg is the merged configuration, filled by loadConfig.
var cfg = config.Default()

// Commands lists every subcommand.
func Commands() []*cobra.Command {
	return []*cobra.Command{
		ParseCmd,
		ListCmd,
		ShowCmd,
		BrowseCmd,
		GenerateCmd,
		RefineCmd,
		GradeCmd,
		DiscussCmd,
		ServeCmd,
		ResetCmd,
		SetupCmd,
	}
}

// Register adds the shared flags, every subcommand and the post-run notices to root.
func Register(root *cobra.Command) {
	pf := root.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "Config file (default: ./"+config.FileName+", then ~/"+config.FileName+")")
	pf.StringVarP(&dirFlag, "dir", "d", "", "Activities directory")
	pf.StringVarP(&llmFlag, "llm", "l", "auto", "LLM provider (auto/claude-cli/codex-cli/anthropic-api)")
	pf.StringVarP(&modelFlag, "model", "m", "", "Model to use (provider-specific)")
	pf.StringVar(&logLevel, "log-level", "", "Log level (debug/info/warn/error)")

	root.AddCommand(Commands()...)
	root.PersistentPostRun = printNotices
}

// loadConfig reads the config file and environment, then applies flags the user set explicitly.
func loadConfig(cmd *cobra.Command) error {
	loaded, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.Flags().Changed("dir") {
		loaded.ActivitiesDir = dirFlag
	}
	if cmd.Flags().Changed("llm") {
		loaded.LLM = llmFlag
	}
	if cmd.Flags().Changed("model") {
		loaded.Model = modelFlag
	}
	if cmd.Flags().Changed("log-level") {
		loaded.Log.Level = logLevel
	}
	cfg = loaded
	return nil
}

func openStore() *store.Store {
	return store.New(cfg.ActivitiesDir)
}

func collisionPolicy() (store.CollisionPolicy, error) {
	return store.ParseCollisionPolicy(cfg.CollisionPolicy)
}

// cliLogger logs warnings to stderr in console format unless a level was chosen.
func cliLogger(cmd *cobra.Command) logger.Logger {
	lc := logger.Config{Level: "warn", Development: true}
	if cmd.Flags().Changed("log-level") {
		lc.Level = cfg.Log.Level
	}
	log, err := logger.New(lc)
	if err != nil {
		return logger.NewNop()
	}
	return log
}

func newAdapter() (llm.Adapter, error) {
	lc := llm.DefaultConfig()
	lc.Provider = cfg.LLM
	lc.Model = cfg.Model
	lc.APIKey = cfg.APIKey
	adapter, err := llm.NewAdapter(lc)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM adapter: %w", err)
	}
	return adapter, nil
}

// modelName is the model used for cost estimates.
func modelName() string {
	if cfg.Model != "" {
		return cfg.Model
	}
	return llm.DefaultClaudeModel
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func printNotices(cmd *cobra.Command, _ []string) {
	if !isTerminal(os.Stderr) {
		return
	}
	stateDir := version.StateDir()
	if version.IsFirstRun(stateDir) {
		version.PrintFirstRunNotice(cmd.ErrOrStderr(), stateDir)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	version.PrintUpdateNotice(cmd.ErrOrStderr(), version.NewChecker().CheckForUpdate(ctx, cmd.Root().Version))
}
