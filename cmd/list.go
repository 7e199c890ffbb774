package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhabedank/activity-parser/internal/activity"
	"github.com/dhabedank/activity-parser/internal/output"
	"github.com/dhabedank/activity-parser/internal/tui"
)

var (
	listFilter string
	listJSON   bool
)

// ListCmd lists the stored activities.
var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "List activities in the activities directory",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	ListCmd.Flags().StringVarP(&listFilter, "filter", "f", "", "Fuzzy filter on slug, title, question and topics")
	ListCmd.Flags().BoolVar(&listJSON, "json", false, "Print summaries as JSON")
}

func runList(cmd *cobra.Command, args []string) error {
	if err := loadConfig(cmd); err != nil {
		return err
	}

	all, err := openStore().LoadAll()
	if err != nil {
		return fmt.Errorf("failed to load activities: %w", err)
	}
	matches := tui.FilterActivities(listFilter, all)

	out := cmd.OutOrStdout()
	if listJSON {
		data, err := json.MarshalIndent(activity.Summaries(matches), "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	if len(matches) == 0 {
		fmt.Fprintln(out, tui.HelpStyle.Render("No activities found in "+cfg.ActivitiesDir))
		return nil
	}
	result, err := (&output.SummaryAdapter{}).Write(matches, output.Config{Out: out})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\n%s\n", tui.HelpStyle.Render(fmt.Sprintf("%d of %d activities", result.Stats.Activities, len(all))))
	return nil
}
