package output

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dhabedank/activity-parser/internal/activity"
)

// JSONAdapter writes activities as indented JSON.
// A single activity is written as an object, several as an array.
type JSONAdapter struct{}

func (a *JSONAdapter) Name() string {
	return "json"
}

func (a *JSONAdapter) Write(activities []activity.Activity, config Config) (*Result, error) {
	var v any = activities
	if len(activities) == 1 {
		v = activities[0]
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	data = append(data, '\n')

	out := config.out()
	switch {
	case config.DryRun:
		fmt.Fprintf(out, "[dry-run] Would write %s:\n", destination(config.Path))
		out.Write(data)
	case config.Path != "":
		if err := os.WriteFile(config.Path, data, 0644); err != nil {
			return nil, fmt.Errorf("failed to write file: %w", err)
		}
	default:
		if _, err := out.Write(data); err != nil {
			return nil, err
		}
	}

	result := &Result{Written: []WrittenItem{}}
	for _, act := range activities {
		result.Written = append(result.Written, WrittenItem{Slug: act.Slug, Title: act.Title, Path: writtenPath(config)})
		result.Stats.add(act)
	}
	return result, nil
}

func destination(path string) string {
	if path == "" {
		return "to stdout"
	}
	return path
}

func writtenPath(config Config) string {
	if config.DryRun {
		return ""
	}
	return config.Path
}
