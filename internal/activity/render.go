package activity

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

type frontMatter struct {
	Title     string   `yaml:"title"`
	Thumbnail string   `yaml:"thumbnail"`
	Topics    []string `yaml:"topics"`
	PDF       string   `yaml:"pdf"`
}

// Render writes a in the activity markdown format understood by Parse.
// Rubric and Checklist sections are only written when present.
func Render(a Activity) (string, error) {
	topics := a.Topics
	if topics == nil {
		topics = []string{}
	}
	fm, err := yaml.Marshal(frontMatter{
		Title:     a.Title,
		Thumbnail: a.Thumbnail,
		Topics:    topics,
		PDF:       a.PDF,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal front matter: %w", err)
	}

	var b strings.Builder
	b.WriteString(frontMatterDelimiter + "\n")
	b.Write(fm)
	b.WriteString(frontMatterDelimiter + "\n\n")

	fmt.Fprintf(&b, "# %s\n%s\n\n", questionHeading, a.Question.Text)

	fmt.Fprintf(&b, "## %s\n", metaHeading)
	writeField(&b, "tag", a.Question.Tag)
	writeField(&b, "askedBy", a.Question.AskedBy)
	b.WriteString("\n")

	fmt.Fprintf(&b, "## %s\n", themesHeading)
	for i, theme := range a.Themes {
		fmt.Fprintf(&b, "%d. %s\n", i+1, theme)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## %s\n", characterPositionsHeading)
	for _, p := range Personas {
		pos := a.CharacterPositions.Of(p)
		fmt.Fprintf(&b, "### %s\n", p)
		writeField(&b, "opinion", pos.Opinion)
		writeField(&b, "status", string(pos.Status))
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## %s\n", initialMessagesHeading)
	for _, p := range Personas {
		fmt.Fprintf(&b, "### %s\n%s\n\n", p, a.InitialMessages.Of(p))
	}

	fmt.Fprintf(&b, "## %s\n", gradingHeading)
	writeField(&b, "question", a.Grading.Question)
	writeField(&b, "keywords_content", strings.Join(a.Grading.KeywordsContent, ", "))
	writeField(&b, "keywords_evidence", strings.Join(a.Grading.KeywordsEvidence, ", "))

	if a.Rubric != nil {
		fmt.Fprintf(&b, "\n## %s\n", rubricHeading)
		for _, d := range Dimensions {
			fmt.Fprintf(&b, "### %s\n", d.Heading())
			levels := a.Rubric.Dimension(d)
			for _, n := range levels.Sorted() {
				writeField(&b, levelKey(n), levels[n])
			}
			b.WriteString("\n")
		}
	}

	if len(a.Checklist) > 0 {
		fmt.Fprintf(&b, "\n## %s\n", checklistHeading)
		for _, item := range a.Checklist {
			fmt.Fprintf(&b, "- %s: %s\n", item.ID, item.Label)
		}
	}

	return strings.TrimRight(b.String(), "\n") + "\n", nil
}

// writeField always quotes the value; ParseField strips exactly one pair,
// so values that begin or end with a quote survive a reparse.
func writeField(b *strings.Builder, key, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "- %s: \"%s\"\n", key, value)
}
