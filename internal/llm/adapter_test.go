package llm_test

import (
	"testing"

	"github.com/dhabedank/activity-parser/internal/llm"
)

func TestDefaultLLMConfig(t *testing.T) {
	config := llm.DefaultConfig()

	if config.Provider != "auto" {
		t.Errorf("Provider = %s, want auto", config.Provider)
	}
	if config.MaxTokens != 8192 {
		t.Errorf("MaxTokens = %d, want 8192", config.MaxTokens)
	}
}

func TestAdapterNames(t *testing.T) {
	if got := llm.NewClaudeCLIAdapter(llm.Config{}).Name(); got != "claude-cli" {
		t.Errorf("claude Name() = %s", got)
	}
	if got := llm.NewCodexCLIAdapter(llm.Config{}).Name(); got != "codex-cli" {
		t.Errorf("codex Name() = %s", got)
	}
	api, err := llm.NewAnthropicAPIAdapter(llm.Config{APIKey: "test-key"})
	if err != nil {
		t.Fatalf("NewAnthropicAPIAdapter() error = %v", err)
	}
	if api.Name() != "anthropic-api" {
		t.Errorf("api Name() = %s", api.Name())
	}
}

func TestAnthropicAPIAdapterWithoutKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	if _, err := llm.NewAnthropicAPIAdapter(llm.Config{}); err == nil {
		t.Error("expected error without API key")
	}
}

func TestNewAdapter(t *testing.T) {
	a, err := llm.NewAdapter(llm.Config{Provider: "anthropic-api", APIKey: "test-key"})
	if err != nil {
		t.Fatalf("NewAdapter() error = %v", err)
	}
	if a.Name() != "anthropic-api" {
		t.Errorf("Name() = %s", a.Name())
	}

	if _, err := llm.NewAdapter(llm.Config{Provider: "gemini"}); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestDetectPrefersAPIKey(t *testing.T) {
	a, err := llm.DetectBestAdapter(llm.Config{APIKey: "test-key"})
	if err != nil {
		t.Fatalf("DetectBestAdapter() error = %v", err)
	}
	if a.Name() != "anthropic-api" {
		t.Errorf("Name() = %s, want anthropic-api", a.Name())
	}
}

func TestListAvailableAdapters(t *testing.T) {
	adapters := llm.ListAvailableAdapters(llm.Config{APIKey: "test-key"})
	if len(adapters) == 0 || adapters[0] != "anthropic-api" {
		t.Errorf("ListAvailableAdapters() = %v, want anthropic-api first", adapters)
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"plain fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding prose", "Here you go: {\"a\":1} hope that helps", `{"a":1}`},
		{"cli envelope", `{"type":"result","result":"{\"a\":1}","is_error":false}`, `{"a":1}`},
		{"cli error", `{"type":"result","result":"boom","is_error":true}`, ""},
		{"no object", "no json here", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := llm.ExtractJSON(tt.in); got != tt.want {
				t.Errorf("ExtractJSON() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		in, lang, want string
	}{
		{"```markdown\n# Question\n```", "markdown", "# Question"},
		{"```\n# Question\n```\n", "markdown", "# Question"},
		{"  # Question  ", "markdown", "# Question"},
	}
	for _, tt := range tests {
		if got := llm.StripFences(tt.in, tt.lang); got != tt.want {
			t.Errorf("StripFences(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
