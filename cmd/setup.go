package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dhabedank/activity-parser/internal/config"
	"github.com/dhabedank/activity-parser/internal/llm"
	"github.com/dhabedank/activity-parser/internal/tui"
)

var resetConfig bool

// SetupCmd represents the setup command.
var SetupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive configuration wizard",
	Long: `Configure activity-parser with an interactive wizard.

The wizard asks for:
- Provider: which LLM backend generates, grades and discusses
- Model: the model that provider uses

Other settings in the file are preserved. Configuration is saved to
~/.activity-parser.yaml`,
	Args: cobra.NoArgs,
	RunE: runSetup,
}

func init() {
	SetupCmd.Flags().BoolVar(&resetConfig, "reset", false, "Reset configuration to defaults")
}

// setupChoice is what the wizard writes.
type setupChoice struct {
	Provider string
	Model    string
}

func runSetup(cmd *cobra.Command, args []string) error {
	configPath := getConfigPath()
	out := cmd.OutOrStdout()

	if resetConfig {
		if err := os.Remove(configPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove config: %w", err)
		}
		fmt.Fprintln(out, tui.SuccessStyle.Render("✓")+" Configuration reset to defaults")
		fmt.Fprintf(out, "  Removed: %s\n", configPath)
		return nil
	}

	providers := availableProviders()
	if len(providers) == 0 {
		return fmt.Errorf("no LLM providers detected. Set ANTHROPIC_API_KEY, or install Claude Code or Codex CLI")
	}

	p := tea.NewProgram(newSetupModel(providers))
	m, err := p.Run()
	if err != nil {
		return fmt.Errorf("wizard failed: %w", err)
	}

	final := m.(setupModel)
	if final.cancelled {
		fmt.Fprintln(out, "Setup cancelled")
		return nil
	}

	choice := final.choice()
	if err := saveConfig(configPath, choice); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, tui.SuccessStyle.Render("✓")+" Configuration saved to "+configPath)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  Provider: %s\n", tui.ModelStyle.Render(choice.Provider))
	fmt.Fprintf(out, "  Model:    %s\n", tui.ModelStyle.Render(choice.Model))
	return nil
}

func getConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return config.FileName
	}
	return filepath.Join(home, config.FileName)
}

// saveConfig writes the provider and model into path, keeping every other key.
func saveConfig(path string, choice setupChoice) error {
	doc := map[string]any{}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("existing config %s is invalid: %w", path, err)
		}
		if doc == nil {
			doc = map[string]any{}
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	doc["llm"] = choice.Provider
	if choice.Model == "" {
		delete(doc, "model")
	} else {
		doc["model"] = choice.Model
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// providerInfo is one selectable LLM backend.
type providerInfo struct {
	ID          string
	Name        string
	Description string
	Family      string // Key into llm.AvailableModels
}

var providerChoices = []providerInfo{
	{ID: "auto", Name: "Auto-detect", Description: "API key first, then Claude Code, then Codex"},
	{ID: "anthropic-api", Name: "Anthropic API", Description: "Uses ANTHROPIC_API_KEY; best for the server", Family: "anthropic"},
	{ID: "claude-cli", Name: "Claude Code", Description: "Uses the claude CLI", Family: "anthropic"},
	{ID: "codex-cli", Name: "Codex", Description: "Uses the codex CLI", Family: "openai"},
}

// availableProviders lists auto plus every provider that can run here.
func availableProviders() []providerInfo {
	adapters := map[string]bool{}
	for _, name := range llm.ListAvailableAdapters(llm.Config{APIKey: os.Getenv("ANTHROPIC_API_KEY")}) {
		adapters[name] = true
	}
	if len(adapters) == 0 {
		return nil
	}

	out := []providerInfo{providerChoices[0]}
	for _, p := range providerChoices[1:] {
		if adapters[p.ID] {
			out = append(out, p)
		}
	}
	return out
}

// modelsFor returns the models a provider can use; auto offers all of them.
func modelsFor(p providerInfo) []llm.ModelInfo {
	if p.Family == "" {
		return llm.AllModels()
	}
	return llm.AvailableModels()[p.Family]
}

// Bubble Tea model for the setup wizard

type setupModel struct {
	step      int // 0=provider, 1=model
	providers list.Model
	models    list.Model
	provider  providerInfo
	model     string
	cancelled bool
	width     int
	height    int
}

type providerItem struct {
	info providerInfo
}

func (p providerItem) Title() string       { return p.info.Name }
func (p providerItem) Description() string { return p.info.Description }
func (p providerItem) FilterValue() string { return p.info.Name }

type modelItem struct {
	info llm.ModelInfo
}

func (m modelItem) Title() string       { return m.info.Name }
func (m modelItem) Description() string { return m.info.Description }
func (m modelItem) FilterValue() string { return m.info.Name }

func newWizardList(items []list.Item, title string) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(lipgloss.Color("#9b59b6"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(lipgloss.Color("#95a5a6"))

	l := list.New(items, delegate, 60, 14)
	l.Title = title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = tui.TitleStyle
	return l
}

func newSetupModel(providers []providerInfo) setupModel {
	items := make([]list.Item, len(providers))
	for i, p := range providers {
		items[i] = providerItem{info: p}
	}
	return setupModel{
		providers: newWizardList(items, "Select LLM Provider"),
	}
}

func (m setupModel) choice() setupChoice {
	return setupChoice{Provider: m.provider.ID, Model: m.model}
}

func (m setupModel) current() *list.Model {
	if m.step == 0 {
		return &m.providers
	}
	return &m.models
}

func (m setupModel) Init() tea.Cmd {
	return nil
}

func (m setupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.providers.SetSize(msg.Width, msg.Height-4)
		m.models.SetSize(msg.Width, msg.Height-4)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.cancelled = true
			return m, tea.Quit

		case "enter":
			if m.step == 0 {
				item, ok := m.providers.SelectedItem().(providerItem)
				if !ok {
					return m, nil
				}
				m.provider = item.info
				models := modelsFor(item.info)
				if len(models) == 0 {
					return m, tea.Quit
				}
				items := make([]list.Item, len(models))
				for i, mi := range models {
					items[i] = modelItem{info: mi}
				}
				m.models = newWizardList(items, "Select Model for "+item.info.Name)
				if m.width > 0 {
					m.models.SetSize(m.width, m.height-4)
				}
				m.step = 1
				return m, nil
			}
			if item, ok := m.models.SelectedItem().(modelItem); ok {
				m.model = item.info.ID
			}
			return m, tea.Quit

		case "left", "h":
			if m.step > 0 {
				m.step--
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.step == 0 {
		m.providers, cmd = m.providers.Update(msg)
	} else {
		m.models, cmd = m.models.Update(msg)
	}
	return m, cmd
}

func (m setupModel) View() string {
	if m.cancelled {
		return ""
	}

	steps := []string{"Provider", "Model"}
	progress := "\n  "
	for i, s := range steps {
		if i == m.step {
			progress += tui.SelectedStyle.Render(fmt.Sprintf("[%s]", s))
		} else if i < m.step {
			progress += tui.SuccessStyle.Render(fmt.Sprintf("✓ %s", s))
		} else {
			progress += tui.UnselectedStyle.Render(fmt.Sprintf("○ %s", s))
		}
		if i < len(steps)-1 {
			progress += " → "
		}
	}
	progress += "\n\n"

	help := tui.HelpStyle.Render("\n  ↑/↓: navigate • enter: select • ←: back • q: quit")

	return progress + m.current().View() + help
}
