package output

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dhabedank/activity-parser/internal/activity"
)

// SummaryAdapter prints one row per activity. It never writes files.
type SummaryAdapter struct{}

func (a *SummaryAdapter) Name() string {
	return "summary"
}

func (a *SummaryAdapter) Write(activities []activity.Activity, config Config) (*Result, error) {
	tw := tabwriter.NewWriter(config.out(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SLUG\tTAG\tTITLE\tQUESTION")

	result := &Result{Written: []WrittenItem{}}
	for _, act := range activities {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", act.Slug, act.Question.Tag, act.Title, truncate(act.Question.Text, 60))
		result.Written = append(result.Written, WrittenItem{Slug: act.Slug, Title: act.Title})
		result.Stats.add(act)
	}
	if err := tw.Flush(); err != nil {
		return nil, err
	}
	return result, nil
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
