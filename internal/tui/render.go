package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/dhabedank/activity-parser/internal/activity"
)

// DefaultWrap is the word-wrap width used before the terminal size is known.
const DefaultWrap = 80

// NewRenderer returns a glamour renderer. An empty style picks one from the terminal background.
func NewRenderer(style string, width int) (*glamour.TermRenderer, error) {
	if width <= 0 {
		width = DefaultWrap
	}
	styleOption := glamour.WithAutoStyle()
	if style != "" {
		styleOption = glamour.WithStandardStyle(style)
	}
	return glamour.NewTermRenderer(styleOption, glamour.WithWordWrap(width))
}

// RenderActivity renders a for reading in a terminal.
func RenderActivity(a activity.Activity, style string, width int) (string, error) {
	r, err := NewRenderer(style, width)
	if err != nil {
		return "", fmt.Errorf("failed to create renderer: %w", err)
	}
	out, err := r.Render(ActivityMarkdown(a))
	if err != nil {
		return "", fmt.Errorf("failed to render activity: %w", err)
	}
	return out, nil
}

// ActivityMarkdown lays the activity out for people rather than for the parser.
func ActivityMarkdown(a activity.Activity) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", a.Title)
	if len(a.Topics) > 0 {
		fmt.Fprintf(&b, "*%s*\n\n", strings.Join(a.Topics, " · "))
	}

	fmt.Fprintf(&b, "> %s\n\n", a.Question.Text)
	var meta []string
	if a.Question.Tag != "" {
		meta = append(meta, "**"+a.Question.Tag+"**")
	}
	if a.Question.AskedBy != "" {
		meta = append(meta, "asked by "+a.Question.AskedBy)
	}
	if a.PDF != "" {
		meta = append(meta, "reading: `"+a.PDF+"`")
	}
	if len(meta) > 0 {
		b.WriteString(strings.Join(meta, " · ") + "\n\n")
	}

	if len(a.Themes) > 0 {
		b.WriteString("## Themes\n\n")
		for i, theme := range a.Themes {
			fmt.Fprintf(&b, "%d. %s\n", i+1, theme)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Positions\n\n")
	for _, p := range activity.Personas {
		pos := a.CharacterPositions.Of(p)
		if pos.Opinion == "" && a.InitialMessages.Of(p) == "" {
			continue
		}
		fmt.Fprintf(&b, "### %s (%s)\n\n", p, pos.Status)
		if pos.Opinion != "" {
			fmt.Fprintf(&b, "%s\n\n", pos.Opinion)
		}
		if msg := a.InitialMessages.Of(p); msg != "" {
			fmt.Fprintf(&b, "> %s\n\n", msg)
		}
	}

	if len(a.Grading.KeywordsContent)+len(a.Grading.KeywordsEvidence) > 0 {
		b.WriteString("## Grading\n\n")
		fmt.Fprintf(&b, "- Content keywords: %s\n", strings.Join(a.Grading.KeywordsContent, ", "))
		fmt.Fprintf(&b, "- Evidence keywords: %s\n\n", strings.Join(a.Grading.KeywordsEvidence, ", "))
	}

	if a.Rubric != nil {
		b.WriteString("## Rubric\n\n| Dimension | Level | Descriptor |\n|---|---|---|\n")
		for _, d := range activity.Dimensions {
			levels := a.Rubric.Dimension(d)
			for _, n := range levels.Sorted() {
				fmt.Fprintf(&b, "| %s | %d | %s |\n", d.Heading(), n, levels[n])
			}
		}
		b.WriteString("\n")
	}

	if len(a.Checklist) > 0 {
		b.WriteString("## Checklist\n\n")
		for _, item := range a.Checklist {
			fmt.Fprintf(&b, "- [ ] %s\n", item.Label)
		}
	}
	return b.String()
}
