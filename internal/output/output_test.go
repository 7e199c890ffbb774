package output_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dhabedank/activity-parser/internal/activity"
	"github.com/dhabedank/activity-parser/internal/output"
)

func sampleActivities() []activity.Activity {
	return []activity.Activity{
		{
			Slug:     "drought-q1-comprehension",
			Title:    "Canadian Drought",
			Topics:   []string{"Climate"},
			Question: activity.Question{Text: "How did drought affect forestry?", Tag: "Comprehension", AskedBy: "Jamie"},
			Themes:   []string{"Wildfires", "Evacuations"},
			Checklist: []activity.ChecklistItem{
				{ID: "analogy", Label: "Use an analogy"},
			},
		},
		{
			Slug:     "drought-q2-comparison",
			Title:    "Canadian Drought",
			Question: activity.Question{Text: "Compare the two regions.", Tag: "Comparison", AskedBy: "Thomas"},
			Rubric:   &activity.Rubric{Content: activity.Levels{1: "None", 5: "All"}},
		},
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		format  string
		want    string
		wantErr bool
	}{
		{"json", "json", false},
		{"", "json", false},
		{"Markdown", "markdown", false},
		{"md", "markdown", false},
		{"table", "summary", false},
		{"beads", "", true},
	}
	for _, tt := range tests {
		adapter, err := output.New(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("New(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
			continue
		}
		if err == nil && adapter.Name() != tt.want {
			t.Errorf("New(%q).Name() = %s, want %s", tt.format, adapter.Name(), tt.want)
		}
	}
}

func TestJSONAdapterSingleIsObject(t *testing.T) {
	var buf bytes.Buffer
	result, err := (&output.JSONAdapter{}).Write(sampleActivities()[:1], output.Config{Out: &buf})
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	var got activity.Activity
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not a JSON object: %v\n%s", err, buf.String())
	}
	if got.Slug != "drought-q1-comprehension" {
		t.Errorf("slug = %s", got.Slug)
	}
	if result.Stats.Activities != 1 || result.Stats.Themes != 2 || result.Stats.Checklist != 1 {
		t.Errorf("stats = %+v", result.Stats)
	}
}

func TestJSONAdapterFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	var buf bytes.Buffer
	result, err := (&output.JSONAdapter{}).Write(sampleActivities(), output.Config{Out: &buf, Path: path})
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("unexpected stream output: %s", buf.String())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got []activity.Activity
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("file is not a JSON array: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("len = %d, want 2", len(got))
	}
	if result.Stats.WithRubric != 1 {
		t.Errorf("WithRubric = %d, want 1", result.Stats.WithRubric)
	}
	if result.Written[1].Path != path {
		t.Errorf("Path = %s, want %s", result.Written[1].Path, path)
	}
}

func TestJSONAdapterDryRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	var buf bytes.Buffer
	if _, err := (&output.JSONAdapter{}).Write(sampleActivities(), output.Config{Out: &buf, Path: path, DryRun: true}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !strings.HasPrefix(buf.String(), "[dry-run] Would write "+path) {
		t.Errorf("missing dry-run header: %s", buf.String())
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("dry run should not create the file")
	}
}

func TestMarkdownAdapterRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	result, err := (&output.MarkdownAdapter{}).Write(sampleActivities(), output.Config{Path: dir})
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if len(result.Written) != 2 {
		t.Fatalf("written = %d, want 2", len(result.Written))
	}

	for _, item := range result.Written {
		raw, err := os.ReadFile(item.Path)
		if err != nil {
			t.Fatal(err)
		}
		parsed, err := activity.Parse(string(raw), item.Slug)
		if err != nil {
			t.Fatalf("Parse(%s) error = %v", item.Slug, err)
		}
		if parsed.Title != "Canadian Drought" {
			t.Errorf("%s title = %q", item.Slug, parsed.Title)
		}
	}
}

func TestMarkdownAdapterStream(t *testing.T) {
	var buf bytes.Buffer
	if _, err := (&output.MarkdownAdapter{}).Write(sampleActivities()[:1], output.Config{Out: &buf}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !strings.Contains(buf.String(), "# Question\nHow did drought affect forestry?") {
		t.Errorf("unexpected markdown:\n%s", buf.String())
	}
}

func TestSummaryAdapter(t *testing.T) {
	var buf bytes.Buffer
	long := sampleActivities()
	long[1].Question.Text = strings.Repeat("word ", 30)
	if _, err := (&output.SummaryAdapter{}).Write(long, output.Config{Out: &buf}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "SLUG") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasSuffix(lines[2], "...") {
		t.Errorf("long question not truncated: %q", lines[2])
	}
}
