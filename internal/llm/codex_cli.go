package llm

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// CodexCLIAdapter uses the Codex CLI for generation.
type CodexCLIAdapter struct {
	model string
}

// NewCodexCLIAdapter creates a Codex CLI adapter.
func NewCodexCLIAdapter(config Config) *CodexCLIAdapter {
	model := config.Model
	if model == "" || strings.HasPrefix(model, "claude") {
		model = "o3"
	}
	return &CodexCLIAdapter{model: model}
}

func (a *CodexCLIAdapter) Name() string {
	return "codex-cli"
}

// IsAvailable checks if the codex CLI is installed.
func (a *CodexCLIAdapter) IsAvailable() bool {
	_, err := exec.LookPath("codex")
	return err == nil
}

// Generate combines both prompts; codex has no separate system prompt flag.
func (a *CodexCLIAdapter) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	combined := fmt.Sprintf("SYSTEM INSTRUCTIONS:\n%s\n\nUSER REQUEST:\n%s", systemPrompt, userPrompt)

	cmd := exec.CommandContext(ctx, "codex", "--model", a.model, "--quiet")
	cmd.Stdin = strings.NewReader(combined)

	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("codex CLI failed: %s", strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("codex CLI failed: %w", err)
	}
	return string(output), nil
}
