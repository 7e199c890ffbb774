package activity

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// Activity is one parsed discussion exercise.
// It is rebuilt from the markdown source on every load and never mutated by the parser.
type Activity struct {
	Slug               string             `json:"slug"`               // Supplied by the caller, never derived from content
	Title              string             `json:"title"`              // Front matter title, falls back to Slug
	Thumbnail          string             `json:"thumbnail"`          // Front matter thumbnail
	Topics             []string           `json:"topics"`             // Front matter topics, in order
	PDF                string             `json:"pdf"`                // Local path or embed URL of the reading
	Question           Question           `json:"question"`           // "# Question" plus Meta fields
	Themes             []string           `json:"themes"`             // Numbered list from "## Themes"
	CharacterPositions CharacterPositions `json:"characterPositions"` // Opening stance of each persona
	InitialMessages    InitialMessages    `json:"initialMessages"`    // First chat line of each persona
	Grading            Grading            `json:"grading"`            // Keywords used to score answers
	Rubric             *Rubric            `json:"rubric"`             // nil when the document has no Rubric section
	Checklist          []ChecklistItem    `json:"checklist"`          // Techniques the student can tick off
}

// Question is the discussion prompt shown to the student.
type Question struct {
	Text    string `json:"text"`
	Tag     string `json:"tag"`
	AskedBy string `json:"askedBy"`
}

// Status is how convinced a persona currently is.
type Status string

const (
	StatusRed    Status = "RED"
	StatusYellow Status = "YELLOW"
	StatusGreen  Status = "GREEN"
)

// ParseStatus maps free text onto the status enum.
// Anything that is not one of the three known values is RED.
func ParseStatus(s string) Status {
	switch Status(strings.ToUpper(strings.TrimSpace(s))) {
	case StatusYellow:
		return StatusYellow
	case StatusGreen:
		return StatusGreen
	default:
		return StatusRed
	}
}

// Persona identifies one of the two simulated debate partners.
type Persona int

const (
	Jamie Persona = iota
	Thomas
)

// Personas lists every persona in document order.
var Personas = []Persona{Jamie, Thomas}

// String returns the heading name used for the persona in the document.
func (p Persona) String() string {
	switch p {
	case Jamie:
		return "Jamie"
	case Thomas:
		return "Thomas"
	default:
		return fmt.Sprintf("Persona(%d)", int(p))
	}
}

// Key returns the JSON key used for the persona.
func (p Persona) Key() string {
	return strings.ToLower(p.String())
}

// ParsePersona resolves a persona from its name or key.
func ParsePersona(s string) (Persona, error) {
	for _, p := range Personas {
		if strings.EqualFold(strings.TrimSpace(s), p.String()) {
			return p, nil
		}
	}
	return 0, &ValidationError{Field: "persona", Message: fmt.Sprintf("unknown persona %q", s)}
}

// Position is a persona's opinion and how convinced they are.
type Position struct {
	Opinion string `json:"opinion"`
	Status  Status `json:"status"`
}

// CharacterPositions holds exactly one position per persona.
type CharacterPositions struct {
	Jamie  Position `json:"jamie"`
	Thomas Position `json:"thomas"`
}

// Of returns the position of p.
func (c CharacterPositions) Of(p Persona) Position {
	if p == Thomas {
		return c.Thomas
	}
	return c.Jamie
}

// InitialMessages holds the opening chat message of each persona.
type InitialMessages struct {
	Jamie  string `json:"jamie"`
	Thomas string `json:"thomas"`
}

// Of returns the opening message of p.
func (m InitialMessages) Of(p Persona) string {
	if p == Thomas {
		return m.Thomas
	}
	return m.Jamie
}

// Grading carries what answer grading needs.
type Grading struct {
	Question         string   `json:"question"`
	KeywordsContent  []string `json:"keywordsContent"`
	KeywordsEvidence []string `json:"keywordsEvidence"`
}

// Dimension names one rubric axis.
type Dimension string

const (
	DimensionContent       Dimension = "content"
	DimensionUnderstanding Dimension = "understanding"
	DimensionConnections   Dimension = "connections"
	DimensionEvidence      Dimension = "evidence"
)

// Dimensions lists the rubric axes in document order.
var Dimensions = []Dimension{DimensionContent, DimensionUnderstanding, DimensionConnections, DimensionEvidence}

// Heading returns the subsection heading used for the dimension.
func (d Dimension) Heading() string {
	s := string(d)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Levels maps a rubric level (1-5) to its descriptor. Absent levels are omitted.
type Levels map[int]string

// Sorted returns the levels present, ascending.
func (l Levels) Sorted() []int {
	keys := make([]int, 0, len(l))
	for k := range l {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Rubric holds the level descriptors of the four grading dimensions.
// A nil dimension means the document had no descriptors for it.
type Rubric struct {
	Content       Levels `json:"content"`
	Understanding Levels `json:"understanding"`
	Connections   Levels `json:"connections"`
	Evidence      Levels `json:"evidence"`
}

// Dimension returns the levels for d.
func (r *Rubric) Dimension(d Dimension) Levels {
	if r == nil {
		return nil
	}
	switch d {
	case DimensionContent:
		return r.Content
	case DimensionUnderstanding:
		return r.Understanding
	case DimensionConnections:
		return r.Connections
	case DimensionEvidence:
		return r.Evidence
	}
	return nil
}

// ChecklistItem is one technique the student can use in the discussion.
type ChecklistItem struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Summary is the lightweight projection served when listing activities.
type Summary struct {
	Slug         string   `json:"slug"`
	Title        string   `json:"title"`
	Thumbnail    string   `json:"thumbnail"`
	Topics       []string `json:"topics"`
	QuestionText string   `json:"questionText"`
	Tag          string   `json:"tag"`
	AskedBy      string   `json:"askedBy"`
}

// Summary projects the activity for listings.
func (a Activity) Summary() Summary {
	return Summary{
		Slug:         a.Slug,
		Title:        a.Title,
		Thumbnail:    a.Thumbnail,
		Topics:       a.Topics,
		QuestionText: a.Question.Text,
		Tag:          a.Question.Tag,
		AskedBy:      a.Question.AskedBy,
	}
}

// Summaries projects every activity in order.
func Summaries(activities []Activity) []Summary {
	out := make([]Summary, 0, len(activities))
	for _, a := range activities {
		out = append(out, a.Summary())
	}
	return out
}

// WithThumbnail returns a copy of a whose thumbnail is url.
// Used to late-bind a computed thumbnail, e.g. for video readings.
func (a Activity) WithThumbnail(url string) Activity {
	b := a.clone()
	b.Thumbnail = url
	return b
}

// WithPDF returns a copy of a whose content reference is ref.
func (a Activity) WithPDF(ref string) Activity {
	b := a.clone()
	b.PDF = ref
	return b
}

func (a Activity) clone() Activity {
	b := a
	b.Topics = slices.Clone(a.Topics)
	b.Themes = slices.Clone(a.Themes)
	b.Grading.KeywordsContent = slices.Clone(a.Grading.KeywordsContent)
	b.Grading.KeywordsEvidence = slices.Clone(a.Grading.KeywordsEvidence)
	b.Checklist = slices.Clone(a.Checklist)
	if a.Rubric != nil {
		r := *a.Rubric
		b.Rubric = &r
	}
	return b
}

// MarshalIndent renders the activity as indented JSON.
func (a Activity) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(a, "", "  ")
}

// ValidationError represents invalid caller input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}
