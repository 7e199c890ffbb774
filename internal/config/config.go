// Package config loads the activity-parser YAML configuration and environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/dhabedank/activity-parser/internal/logger"
)

// FileName is the config file looked up in the working directory, then in $HOME.
const FileName = ".activity-parser.yaml"

// DefaultProtected lists the files reset never deletes.
var DefaultProtected = []string{
	"TEMPLATE.md",
	"drought-q1-comprehension.md",
	"drought-q2-comparison.md",
}

// DefaultProtectedAssets lists the asset files reset never deletes.
var DefaultProtectedAssets = []string{
	"Drought_Reading.pdf", "drought-reading.pdf", "backgroundimage.png", "drought_banner.png",
	"drought_banner_long.png", "hero_backdrop.svg", "jamie_beaver.png", "jamiechat.png",
	"ph1.png", "ph2.png", "ph3.png", "ph4.png", "q1card.png", "q2card.png",
	"thomas_goose.png", "thomaschat.png",
}

// DefaultPresets maps upload slugs to activities that ship with the project.
// Uploading a matching PDF serves these instead of generating new ones.
func DefaultPresets() map[string][]string {
	return map[string][]string{
		"drought-reading": {"drought-q1-comprehension", "drought-q2-comparison"},
	}
}

// Config is the merged configuration for every command.
type Config struct {
	ActivitiesDir   string              `yaml:"activities_dir"`
	AssetsDir       string              `yaml:"assets_dir"`
	LLM             string              `yaml:"llm"`
	Model           string              `yaml:"model"`
	APIKey          string              `yaml:"-"`
	CollisionPolicy string              `yaml:"collision_policy"`
	Concurrency     int                 `yaml:"concurrency"`
	Protected       []string            `yaml:"protected"`
	ProtectedAssets []string            `yaml:"protected_assets"`
	Presets         map[string][]string `yaml:"presets"`
	Server          ServerConfig        `yaml:"server"`
	Log             logger.Config       `yaml:"log"`

	// Path is the file the config was read from, empty when defaults were used.
	Path string `yaml:"-"`
}

// ServerConfig holds the HTTP API settings.
type ServerConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		ActivitiesDir:   "activities",
		AssetsDir:       filepath.Join("public", "assets"),
		LLM:             "auto",
		CollisionPolicy: "suffix",
		Concurrency:     3,
		Protected:       append([]string(nil), DefaultProtected...),
		ProtectedAssets: append([]string(nil), DefaultProtectedAssets...),
		Presets:         DefaultPresets(),
		Server: ServerConfig{
			Port:           3001,
			AllowedOrigins: []string{"http://localhost:5173", "http://127.0.0.1:5173"},
		},
		Log: logger.Config{Level: "info"},
	}
}

// Load reads the config file at path, or the first one found when path is empty,
// then applies .env files and environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = find()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
		cfg.Path = path
	}

	if err := loadEnvFiles(); err != nil {
		return cfg, err
	}
	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func find() string {
	if _, err := os.Stat(FileName); err == nil {
		return FileName
	}
	if home, err := os.UserHomeDir(); err == nil {
		homePath := filepath.Join(home, FileName)
		if _, err := os.Stat(homePath); err == nil {
			return homePath
		}
	}
	return ""
}

// loadEnvFiles loads ENV_FILE alone when set, otherwise .env.local then .env.
// godotenv never overrides variables that are already set.
func loadEnvFiles() error {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
		return nil
	}
	for _, name := range []string{".env.local", ".env"} {
		if err := godotenv.Load(name); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load %s: %w", name, err)
		}
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("ACTIVITIES_DIR"); v != "" {
		c.ActivitiesDir = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("ASSETS_DIR"); v != "" {
		c.AssetsDir = v
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || port <= 0 || port > 65535 {
			return fmt.Errorf("invalid PORT %q", v)
		}
		c.Server.Port = port
	}
	return c.validate()
}

func (c *Config) validate() error {
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	}
	switch c.CollisionPolicy {
	case "suffix", "overwrite", "error":
	default:
		return fmt.Errorf("invalid collision_policy %q", c.CollisionPolicy)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.Server.Port)
}
