package llm

import (
	"context"
	"encoding/json"
	"strings"
)

// Adapter is the interface all LLM adapters must implement.
type Adapter interface {
	// Name returns the adapter identifier for logging.
	Name() string

	// IsAvailable checks if this adapter can be used (CLI installed, API key set, etc.)
	IsAvailable() bool

	// Generate sends prompts to the LLM and returns the raw text reply.
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Config holds configuration for LLM adapters.
type Config struct {
	// Provider selects an adapter by name, or "auto" to detect one.
	Provider string

	// Model specifies which model to use (optional, adapter chooses default).
	Model string

	// APIKey for direct API access (optional if CLI is used).
	APIKey string

	// MaxTokens limits response length.
	MaxTokens int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider:  "auto",
		MaxTokens: 8192,
	}
}

// ExtractJSON pulls the first JSON object out of model output, unwrapping the
// claude CLI JSON envelope and markdown fences. It returns "" when none is found.
func ExtractJSON(output string) string {
	output = strings.TrimSpace(output)

	if strings.HasPrefix(output, "{\"type\":") {
		var wrapper struct {
			Type    string `json:"type"`
			Result  string `json:"result"`
			IsError bool   `json:"is_error"`
		}
		if err := json.Unmarshal([]byte(output), &wrapper); err == nil {
			if wrapper.IsError {
				return ""
			}
			output = strings.TrimSpace(wrapper.Result)
		}
	}

	output = StripFences(output, "json")

	start := strings.Index(output, "{")
	end := strings.LastIndex(output, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return output[start : end+1]
}

// StripFences removes a surrounding ``` or ```lang fence and trims the result.
func StripFences(output, lang string) string {
	output = strings.TrimSpace(output)
	switch {
	case lang != "" && strings.HasPrefix(output, "```"+lang):
		output = strings.TrimPrefix(output, "```"+lang)
	case strings.HasPrefix(output, "```"):
		output = strings.TrimPrefix(output, "```")
	default:
		return output
	}
	if idx := strings.LastIndex(output, "```"); idx != -1 {
		output = output[:idx]
	}
	return strings.TrimSpace(output)
}
