package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dhabedank/activity-parser/internal/store"
	"github.com/dhabedank/activity-parser/internal/tui"
)

var (
	showRaw   bool
	showStyle string
)

// ShowCmd renders one activity in the terminal.
var ShowCmd = &cobra.Command{
	Use:   "show <slug>",
	Short: "Render an activity in the terminal",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	ShowCmd.Flags().BoolVar(&showRaw, "raw", false, "Print the stored markdown unchanged")
	ShowCmd.Flags().StringVar(&showStyle, "style", "", "glamour style (dark/light/notty; default: detect)")
}

func runShow(cmd *cobra.Command, args []string) error {
	if err := loadConfig(cmd); err != nil {
		return err
	}
	s := openStore()
	slug := args[0]

	if showRaw {
		raw, err := s.Raw(slug)
		if err != nil {
			return notFound(slug, err)
		}
		fmt.Fprint(cmd.OutOrStdout(), raw)
		return nil
	}

	a, err := s.Load(slug)
	if err != nil {
		return notFound(slug, err)
	}
	width := tui.DefaultWrap
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}
	style := showStyle
	if style == "" && !isTerminal(os.Stdout) {
		style = "notty"
	}
	rendered, err := tui.RenderActivity(a, style, width)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), rendered)
	return nil
}

func notFound(slug string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("activity %q not found in %s", slug, cfg.ActivitiesDir)
	}
	return err
}
