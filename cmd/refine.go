package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhabedank/activity-parser/internal/generate"
	"github.com/dhabedank/activity-parser/internal/tui"
)

var (
	refineFeedback string
	refineDryRun   bool
)

// RefineCmd revises a stored activity from feedback.
var RefineCmd = &cobra.Command{
	Use:   "refine <slug>",
	Short: "Revise an activity based on feedback",
	Long: `Revise a stored activity with the LLM according to your feedback.

The title, reading reference and thumbnail are kept. The revised document must
still parse, otherwise nothing is written.

Example:
  activity-parser refine drought-q1-comprehension --feedback "Ask about forests, not farms"`,
	Args: cobra.ExactArgs(1),
	RunE: runRefine,
}

func init() {
	RefineCmd.Flags().StringVarP(&refineFeedback, "feedback", "f", "", "Correction feedback (required)")
	RefineCmd.Flags().BoolVar(&refineDryRun, "dry-run", false, "Print the revision without saving it")
	_ = RefineCmd.MarkFlagRequired("feedback")
}

func runRefine(cmd *cobra.Command, args []string) error {
	if err := loadConfig(cmd); err != nil {
		return err
	}
	slug := args[0]
	s := openStore()
	raw, err := s.Raw(slug)
	if err != nil {
		return notFound(slug, err)
	}

	adapter, err := newAdapter()
	if err != nil {
		return err
	}
	log := cliLogger(cmd)
	defer log.Sync()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, tui.RenderStep("Refining "+slug, adapter.Name()))

	ctx := cmd.Context()
	item, err := generate.New(generate.Options{Adapter: adapter, Store: s, Logger: log}).Refine(ctx, generate.RefineRequest{
		Slug:     slug,
		Raw:      raw,
		Feedback: refineFeedback,
		Persist:  !refineDryRun,
	})
	if err != nil {
		return fmt.Errorf("refine failed: %w", err)
	}

	if refineDryRun {
		fmt.Fprintln(out, tui.HelpStyle.Render("[dry-run] Would write:"))
		fmt.Fprint(out, item.Raw)
		return nil
	}
	fmt.Fprintf(out, "%s Updated %s\n", tui.SuccessStyle.Render("✓"), slug)
	fmt.Fprintf(out, "  Question: %s\n", item.Activity.Question.Text)
	return nil
}
