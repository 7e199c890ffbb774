package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/dhabedank/activity-parser/internal/tui"
)

// BrowseCmd opens the interactive activity browser.
var BrowseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse activities interactively",
	Long: `Browse activities in a filterable list.

  ↑/↓: navigate • /: fuzzy filter • enter: open • esc: back • q: quit`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

func runBrowse(cmd *cobra.Command, args []string) error {
	if err := loadConfig(cmd); err != nil {
		return err
	}
	all, err := openStore().LoadAll()
	if err != nil {
		return fmt.Errorf("failed to load activities: %w", err)
	}
	if len(all) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), tui.HelpStyle.Render("No activities found in "+cfg.ActivitiesDir))
		return nil
	}

	p := tea.NewProgram(tui.NewBrowser(all, ""), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("browser failed: %w", err)
	}
	return nil
}
