package output

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dhabedank/activity-parser/internal/activity"
)

// MarkdownAdapter writes activities back to the markdown document format.
// With a Path, each activity goes to <Path>/<slug>.md.
type MarkdownAdapter struct{}

func (a *MarkdownAdapter) Name() string {
	return "markdown"
}

func (a *MarkdownAdapter) Write(activities []activity.Activity, config Config) (*Result, error) {
	out := config.out()
	result := &Result{Written: []WrittenItem{}}

	if config.Path != "" && !config.DryRun {
		if err := os.MkdirAll(config.Path, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	for i, act := range activities {
		doc, err := activity.Render(act)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", act.Slug, err)
		}

		item := WrittenItem{Slug: act.Slug, Title: act.Title}
		switch {
		case config.Path == "":
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprint(out, doc)
		case config.DryRun:
			fmt.Fprintf(out, "[dry-run] Would write %s\n", filepath.Join(config.Path, act.Slug+".md"))
		default:
			item.Path = filepath.Join(config.Path, act.Slug+".md")
			if err := os.WriteFile(item.Path, []byte(doc), 0644); err != nil {
				return nil, fmt.Errorf("failed to write %s: %w", item.Path, err)
			}
		}
		result.Written = append(result.Written, item)
		result.Stats.add(act)
	}
	return result, nil
}
