package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhabedank/activity-parser/internal/activity"
	"github.com/dhabedank/activity-parser/internal/grading"
	"github.com/dhabedank/activity-parser/internal/tui"
)

var (
	gradeAnswer     string
	gradeAnswerFile string
	gradeOffline    bool
	gradeJSON       bool
)

// GradeCmd scores an answer against an activity's rubric.
var GradeCmd = &cobra.Command{
	Use:   "grade [slug]",
	Short: "Grade a student answer",
	Long: `Grade an answer on the four rubric dimensions.

The model grades when one is available; otherwise, or with --offline, the
keyword strategy counts the activity's grading keywords. Without a slug the
answer is graded against the default question and keywords.

Pass "-" to --answer-file to read the answer from stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGrade,
}

func init() {
	GradeCmd.Flags().StringVarP(&gradeAnswer, "answer", "a", "", "Answer text")
	GradeCmd.Flags().StringVar(&gradeAnswerFile, "answer-file", "", "Read the answer from a file")
	GradeCmd.Flags().BoolVar(&gradeOffline, "offline", false, "Use keyword grading only")
	GradeCmd.Flags().BoolVar(&gradeJSON, "json", false, "Print grades as JSON")
}

func readAnswer(stdin io.Reader) (string, error) {
	answer := gradeAnswer
	switch gradeAnswerFile {
	case "":
	case "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", err
		}
		answer = string(data)
	default:
		data, err := os.ReadFile(gradeAnswerFile)
		if err != nil {
			return "", fmt.Errorf("failed to read answer: %w", err)
		}
		answer = string(data)
	}
	if strings.TrimSpace(answer) == "" {
		return "", &activity.ValidationError{Field: "answer", Message: "answer is required"}
	}
	return answer, nil
}

func runGrade(cmd *cobra.Command, args []string) error {
	if err := loadConfig(cmd); err != nil {
		return err
	}
	answer, err := readAnswer(cmd.InOrStdin())
	if err != nil {
		return err
	}

	var a *activity.Activity
	if len(args) == 1 {
		loaded, err := openStore().Load(args[0])
		if err != nil {
			return notFound(args[0], err)
		}
		a = &loaded
	}

	log := cliLogger(cmd)
	defer log.Sync()

	var primary grading.Grader
	if !gradeOffline {
		adapter, err := newAdapter()
		if err != nil {
			log.Warn("No model available, grading by keywords")
		} else {
			primary = grading.ModelGrader{Adapter: adapter}
		}
	}

	grades, err := grading.New(primary, log).Grade(cmd.Context(), grading.NewInput(answer, a))
	if err != nil {
		return fmt.Errorf("grading failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if gradeJSON {
		data, err := json.MarshalIndent(grades, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	}
	fmt.Fprint(out, renderGrades(grades))
	return nil
}

func renderGrades(g grading.Grades) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", tui.TitleStyle.Render("Grades"), tui.HelpStyle.Render("("+g.Strategy+")"))
	for _, d := range activity.Dimensions {
		dg := g.Of(d)
		fmt.Fprintf(&b, "  %-14s %3d  %s  %s\n",
			d.Heading(),
			dg.Score,
			levelBar(dg.Level),
			dg.Feedback,
		)
		if dg.Descriptor != "" {
			fmt.Fprintf(&b, "  %-14s           %s\n", "", tui.HelpStyle.Render(dg.Descriptor))
		}
	}
	return b.String()
}

// levelBar draws a level as five pips, e.g. ●●●○○.
func levelBar(level int) string {
	level = max(0, min(level, 5))
	return tui.CostStyle.Render(strings.Repeat("●", level)) + tui.UnselectedStyle.Render(strings.Repeat("○", 5-level))
}
