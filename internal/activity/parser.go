// Package activity parses activity markdown documents into Activity records
// and renders them back.
//
// Parsing is schema-on-read: every section is optional and resolves to a
// documented default, so a parsed Activity is always complete. Only a
// malformed front matter block fails the whole document.
package activity

import (
	"path/filepath"
	"strings"
)

// Heading names of the document schema.
const (
	questionHeading           = "Question"
	metaHeading               = "Meta"
	themesHeading             = "Themes"
	characterPositionsHeading = "Character Positions"
	initialMessagesHeading    = "Initial Messages"
	gradingHeading            = "Grading"
	rubricHeading             = "Rubric"
	checklistHeading          = "Checklist"
)

// SectionNames lists the body sections in document order.
var SectionNames = []string{
	questionHeading,
	metaHeading,
	themesHeading,
	characterPositionsHeading,
	initialMessagesHeading,
	gradingHeading,
	rubricHeading,
	checklistHeading,
}

// Parse assembles an Activity from raw markdown and a caller-supplied slug.
// It performs no I/O and is safe for concurrent use.
func Parse(raw, slug string) (Activity, error) {
	meta, body, err := SplitFrontMatter(normalizeNewlines(raw))
	if err != nil {
		return Activity{}, err
	}

	questionText := getQuestion(body)

	metaSection := GetSection(body, metaHeading, 2)
	themesSection := GetSection(body, themesHeading, 2)
	charSection := GetSection(body, characterPositionsHeading, 2)
	msgSection := GetSection(body, initialMessagesHeading, 2)
	gradingSection := GetSection(body, gradingHeading, 2)
	rubricSection := GetSection(body, rubricHeading, 2)
	checklistSection := GetSection(body, checklistHeading, 2)

	title := metaString(meta, "title")
	if title == "" {
		title = slug
	}

	gradingQuestion := ParseField(gradingSection, "question")
	if gradingQuestion == "" {
		gradingQuestion = questionText
	}

	return Activity{
		Slug:      slug,
		Title:     title,
		Thumbnail: metaString(meta, "thumbnail"),
		Topics:    metaList(meta, "topics"),
		PDF:       metaString(meta, "pdf"),
		Question: Question{
			Text:    questionText,
			Tag:     ParseField(metaSection, "tag"),
			AskedBy: ParseField(metaSection, "askedBy"),
		},
		Themes: ParseNumberedList(themesSection),
		CharacterPositions: CharacterPositions{
			Jamie:  parsePosition(charSection, Jamie),
			Thomas: parsePosition(charSection, Thomas),
		},
		InitialMessages: InitialMessages{
			Jamie:  GetSubSection(msgSection, Jamie.String()),
			Thomas: GetSubSection(msgSection, Thomas.String()),
		},
		Grading: Grading{
			Question:         gradingQuestion,
			KeywordsContent:  ParseListField(gradingSection, "keywords_content"),
			KeywordsEvidence: ParseListField(gradingSection, "keywords_evidence"),
		},
		Rubric:    parseRubric(rubricSection),
		Checklist: ParseChecklist(checklistSection),
	}, nil
}

// ParseFile parses a document whose slug is its file name without ".md".
func ParseFile(path string, raw []byte) (Activity, error) {
	return Parse(string(raw), SlugFromPath(path))
}

// SlugFromPath returns the file stem of path.
func SlugFromPath(path string) string {
	return strings.TrimSuffix(filepath.Base(path), ".md")
}

func parsePosition(section string, p Persona) Position {
	block := GetSubSection(section, p.String())
	return Position{
		Opinion: ParseField(block, "opinion"),
		Status:  ParseStatus(ParseField(block, "status")),
	}
}

func parseRubric(section string) *Rubric {
	if section == "" {
		return nil
	}
	return &Rubric{
		Content:       ParseRubricDimension(GetSubSection(section, DimensionContent.Heading())),
		Understanding: ParseRubricDimension(GetSubSection(section, DimensionUnderstanding.Heading())),
		Connections:   ParseRubricDimension(GetSubSection(section, DimensionConnections.Heading())),
		Evidence:      ParseRubricDimension(GetSubSection(section, DimensionEvidence.Heading())),
	}
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}
