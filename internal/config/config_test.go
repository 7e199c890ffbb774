package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"ENV_FILE", "ANTHROPIC_API_KEY", "ACTIVITIES_DIR", "PORT", "LOG_LEVEL", "ASSETS_DIR"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Setenv("HOME", t.TempDir())
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, ":3001", cfg.Addr())
}

func TestLoadFileFromWorkingDirectory(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(FileName, []byte(`
activities_dir: content
collision_policy: error
protected: [TEMPLATE.md]
server:
  port: 8080
log:
  level: debug
`), 0644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, FileName, cfg.Path)
	assert.Equal(t, "content", cfg.ActivitiesDir)
	assert.Equal(t, "error", cfg.CollisionPolicy)
	assert.Equal(t, []string{"TEMPLATE.md"}, cfg.Protected)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Unset keys keep their defaults.
	assert.Equal(t, "auto", cfg.LLM)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(".env", []byte("ACTIVITIES_DIR=from-dotenv\nPORT=4000\n"), 0644))
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.ActivitiesDir)
	assert.Equal(t, 4000, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadExplicitEnvFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	chdir(t, dir)
	envFile := filepath.Join(dir, "custom.env")
	require.NoError(t, os.WriteFile(envFile, []byte("ANTHROPIC_API_KEY=sk-test\n"), 0644))
	t.Setenv("ENV_FILE", envFile)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "sk-test", cfg.APIKey)
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	chdir(t, dir)

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("server: [\n"), 0644))
	_, err = Load(bad)
	assert.Error(t, err)

	t.Setenv("PORT", "not-a-port")
	_, err = Load("")
	assert.Error(t, err)
}

func TestLoadPresetsAndAssets(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(FileName, []byte(`
concurrency: 5
protected_assets: [logo.png]
presets:
  forest-fires: [forest-q1-analysis]
`), 0644))
	t.Setenv("ASSETS_DIR", "static")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Concurrency)
	assert.Equal(t, []string{"logo.png"}, cfg.ProtectedAssets)
	assert.Equal(t, "static", cfg.AssetsDir)
	assert.Equal(t, []string{"forest-q1-analysis"}, cfg.Presets["forest-fires"])
	// Shipped presets stay unless overridden.
	assert.Equal(t, []string{"drought-q1-comprehension", "drought-q2-comparison"}, cfg.Presets["drought-reading"])
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero concurrency", "concurrency: 0\n"},
		{"unknown policy", "collision_policy: replace\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			dir := t.TempDir()
			path := filepath.Join(dir, "cfg.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0644))
			chdir(t, dir)

			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}
