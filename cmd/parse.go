package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhabedank/activity-parser/internal/activity"
	"github.com/dhabedank/activity-parser/internal/output"
)

var (
	parseSlug       string
	parseSummary    bool
	parseFormat     string
	parseOutputPath string
	parseDryRun     bool
)

// ParseCmd parses one activity document.
var ParseCmd = &cobra.Command{
	Use:   "parse <activity.md>",
	Short: "Parse an activity document and print it",
	Long: `Parse an activity markdown document into its structured record.

The slug defaults to the file name without .md. Use --summary for the
lightweight listing projection, or --output markdown to re-render the
document in canonical form.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	ParseCmd.Flags().StringVar(&parseSlug, "slug", "", "Slug to assign (default: file name)")
	ParseCmd.Flags().BoolVar(&parseSummary, "summary", false, "Print the summary projection only")
	ParseCmd.Flags().StringVarP(&parseFormat, "output", "o", "json", "Output format (json/markdown/summary)")
	ParseCmd.Flags().StringVar(&parseOutputPath, "output-path", "", "Write to a file (json) or directory (markdown)")
	ParseCmd.Flags().BoolVar(&parseDryRun, "dry-run", false, "Preview without writing files")
}

func runParse(cmd *cobra.Command, args []string) error {
	path := args[0]
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read activity: %w", err)
	}

	slug := parseSlug
	if slug == "" {
		slug = activity.SlugFromPath(path)
	}
	a, err := activity.Parse(string(raw), slug)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if parseSummary {
		data, err := json.MarshalIndent(a.Summary(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	adapter, err := output.New(parseFormat)
	if err != nil {
		return err
	}
	_, err = adapter.Write([]activity.Activity{a}, output.Config{
		Out:    cmd.OutOrStdout(),
		Path:   parseOutputPath,
		DryRun: parseDryRun,
	})
	return err
}
