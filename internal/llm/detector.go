package llm

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// DefaultClaudeModel is used when no model is configured.
const DefaultClaudeModel = "claude-sonnet-4-5-20250929"

// ModelInfo describes an available model.
type ModelInfo struct {
	ID          string
	Name        string
	Description string
	Provider    string
}

var claudeModels = []ModelInfo{
	{ID: "claude-opus-4-5-20251101", Name: "Claude Opus 4.5", Description: "Highest quality activities, slowest", Provider: "anthropic"},
	{ID: "claude-sonnet-4-5-20250929", Name: "Claude Sonnet 4.5", Description: "Default; good questions and rubrics", Provider: "anthropic"},
	{ID: "claude-haiku-4-5-20251001", Name: "Claude Haiku 4.5", Description: "Fast grading and drafts", Provider: "anthropic"},
}

var codexModels = []ModelInfo{
	{ID: "o3", Name: "O3", Description: "Most capable reasoning model", Provider: "openai"},
	{ID: "gpt-4o-mini", Name: "GPT-4o Mini", Description: "Most cost-effective", Provider: "openai"},
}

// AvailableModels returns models grouped by provider, based on installed CLIs and API keys.
func AvailableModels() map[string][]ModelInfo {
	result := make(map[string][]ModelInfo)
	if _, err := exec.LookPath("claude"); err == nil || os.Getenv("ANTHROPIC_API_KEY") != "" {
		result["anthropic"] = claudeModels
	}
	if _, err := exec.LookPath("codex"); err == nil {
		result["openai"] = codexModels
	}
	return result
}

// AllModels flattens AvailableModels, Anthropic first.
func AllModels() []ModelInfo {
	available := AvailableModels()
	var all []ModelInfo
	for _, provider := range []string{"anthropic", "openai"} {
		all = append(all, available[provider]...)
	}
	return all
}

// NewAdapter returns the adapter named by config.Provider. "auto" or "" detects one.
func NewAdapter(config Config) (Adapter, error) {
	switch strings.ToLower(config.Provider) {
	case "", "auto":
		return DetectBestAdapter(config)
	case "claude", "claude-cli":
		a := NewClaudeCLIAdapter(config)
		if !a.IsAvailable() {
			return nil, fmt.Errorf("claude CLI not found in PATH")
		}
		return a, nil
	case "codex", "codex-cli":
		a := NewCodexCLIAdapter(config)
		if !a.IsAvailable() {
			return nil, fmt.Errorf("codex CLI not found in PATH")
		}
		return a, nil
	case "anthropic", "anthropic-api", "api":
		return NewAnthropicAPIAdapter(config)
	}
	return nil, fmt.Errorf("unknown LLM provider: %s", config.Provider)
}

// DetectBestAdapter finds the best available LLM adapter.
// Priority: Anthropic API (when a key is set) > Claude CLI > Codex CLI.
// The API comes first because the server calls it concurrently and CLIs are slow to start.
func DetectBestAdapter(config Config) (Adapter, error) {
	if api, err := NewAnthropicAPIAdapter(config); err == nil {
		return api, nil
	}

	claude := NewClaudeCLIAdapter(config)
	if claude.IsAvailable() {
		return claude, nil
	}

	codex := NewCodexCLIAdapter(config)
	if codex.IsAvailable() {
		return codex, nil
	}

	return nil, fmt.Errorf("no LLM adapter available - set ANTHROPIC_API_KEY, or install Claude Code or Codex")
}

// ListAvailableAdapters returns the names of all adapters that could be used.
func ListAvailableAdapters(config Config) []string {
	available := []string{}
	if api, _ := NewAnthropicAPIAdapter(config); api != nil {
		available = append(available, api.Name())
	}
	if claude := NewClaudeCLIAdapter(config); claude.IsAvailable() {
		available = append(available, claude.Name())
	}
	if codex := NewCodexCLIAdapter(config); codex.IsAvailable() {
		available = append(available, codex.Name())
	}
	return available
}
