// Package output writes parsed or generated activities in the formats the CLI offers.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dhabedank/activity-parser/internal/activity"
)

// WrittenItem is one activity that was emitted.
type WrittenItem struct {
	Slug  string
	Title string
	Path  string // empty when written to the stream
}

// Result is the outcome of writing a batch of activities.
type Result struct {
	Written []WrittenItem
	Stats   Stats
}

// Stats summarizes what was written.
type Stats struct {
	Activities int
	Themes     int
	Checklist  int
	WithRubric int
}

func (s *Stats) add(a activity.Activity) {
	s.Activities++
	s.Themes += len(a.Themes)
	s.Checklist += len(a.Checklist)
	if a.Rubric != nil {
		s.WithRubric++
	}
}

// Adapter is the interface all output formats implement.
type Adapter interface {
	// Name returns the format identifier used by --format.
	Name() string

	// Write emits the activities according to config.
	Write(activities []activity.Activity, config Config) (*Result, error)
}

// Config configures output adapter behavior.
type Config struct {
	// Out receives stream output and dry-run previews. Defaults to stdout.
	Out io.Writer

	// Path is a file (json) or directory (markdown). Empty writes to Out.
	Path string

	// DryRun previews without writing files.
	DryRun bool
}

// DefaultConfig returns stream output to stdout.
func DefaultConfig() Config {
	return Config{Out: os.Stdout}
}

func (c Config) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// Formats lists the accepted --format values.
var Formats = []string{"json", "markdown", "summary"}

// New returns the adapter for a format name.
func New(format string) (Adapter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "":
		return &JSONAdapter{}, nil
	case "markdown", "md":
		return &MarkdownAdapter{}, nil
	case "summary", "table":
		return &SummaryAdapter{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (use %s)", format, strings.Join(Formats, ", "))
	}
}
