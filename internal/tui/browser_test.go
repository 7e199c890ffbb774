package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dhabedank/activity-parser/internal/activity"
)

func browseFixtures() []activity.Activity {
	return []activity.Activity{
		{
			Slug:     "drought-q1-comprehension",
			Title:    "Canadian Drought",
			Topics:   []string{"Climate", "Forestry"},
			Question: activity.Question{Text: "How did drought affect forestry?", Tag: "Comprehension", AskedBy: "Jamie"},
			Themes:   []string{"Wildfires"},
			CharacterPositions: activity.CharacterPositions{
				Jamie: activity.Position{Opinion: "Fires are exciting.", Status: activity.StatusRed},
			},
			Rubric: &activity.Rubric{Content: activity.Levels{1: "Mentions none", 5: "Mentions all"}},
		},
		{
			Slug:     "ocean-q1-analysis",
			Title:    "Ocean Currents",
			Question: activity.Question{Text: "Why do currents move heat?", Tag: "Analysis"},
		},
	}
}

func TestFilterActivities(t *testing.T) {
	all := browseFixtures()

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"drought-q1-comprehension", "ocean-q1-analysis"}},
		{"drgt", []string{"drought-q1-comprehension"}},
		{"ANALYSIS", []string{"ocean-q1-analysis"}},
		{"forestry", []string{"drought-q1-comprehension"}},
		{"zzzz", nil},
	}
	for _, tt := range tests {
		var got []string
		for _, a := range FilterActivities(tt.query, all) {
			got = append(got, a.Slug)
		}
		if strings.Join(got, ",") != strings.Join(tt.want, ",") {
			t.Errorf("FilterActivities(%q) = %v, want %v", tt.query, got, tt.want)
		}
	}
}

func TestFuzzyFilter(t *testing.T) {
	ranks := FuzzyFilter("ocn", []string{"drought", "ocean currents"})
	if len(ranks) != 1 || ranks[0].Index != 1 {
		t.Fatalf("FuzzyFilter() = %+v", ranks)
	}
	if len(ranks[0].MatchedIndexes) != 3 {
		t.Errorf("MatchedIndexes = %v", ranks[0].MatchedIndexes)
	}
}

func TestActivityMarkdown(t *testing.T) {
	md := ActivityMarkdown(browseFixtures()[0])
	for _, want := range []string{
		"# Canadian Drought",
		"> How did drought affect forestry?",
		"**Comprehension** · asked by Jamie",
		"1. Wildfires",
		"### Jamie (RED)",
		"| Content | 5 | Mentions all |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
	if strings.Contains(md, "### Thomas") {
		t.Error("empty persona should be skipped")
	}
}

func TestRenderActivity(t *testing.T) {
	out, err := RenderActivity(browseFixtures()[1], "notty", 60)
	if err != nil {
		t.Fatalf("RenderActivity() error = %v", err)
	}
	if !strings.Contains(out, "Why do currents move heat?") {
		t.Errorf("rendered output missing question:\n%s", out)
	}
}

func TestBrowserOpensDetail(t *testing.T) {
	var m tea.Model = NewBrowser(browseFixtures(), "notty")
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})

	if !strings.Contains(m.View(), "Canadian Drought") {
		t.Fatalf("list view missing activity:\n%s", m.View())
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.(Browser).Detail() {
		t.Fatal("enter should open the detail view")
	}
	if !strings.Contains(m.View(), "How did drought affect forestry?") {
		t.Errorf("detail view missing question:\n%s", m.View())
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.(Browser).Detail() {
		t.Error("esc should return to the list")
	}
}
