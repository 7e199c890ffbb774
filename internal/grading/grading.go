// Package grading scores a student's answer against an activity's grading
// keywords and rubric.
package grading

import (
	"context"
	"strings"

	"github.com/dhabedank/activity-parser/internal/activity"
)

// DefaultQuestion is graded against when an activity has no grading question.
const DefaultQuestion = "How did the drought affect forests and non-farming communities across Canada?"

var (
	// DefaultKeywordsContent are used when an activity lists no content keywords.
	DefaultKeywordsContent = []string{"wildfire", "forest", "air quality", "evacuat", "health", "newfoundland", "communities", "first nations", "bans"}

	// DefaultKeywordsEvidence are used when an activity lists no evidence keywords.
	DefaultKeywordsEvidence = []string{"6.5 million", "6.8 million", "hectare", "newfoundland", "first nations", "pregnant", "children"}
)

// Strategy names reported in Grades.Strategy.
const (
	StrategyModel   = "model"
	StrategyKeyword = "keyword"
)

// DimensionGrade is the score for one rubric dimension.
type DimensionGrade struct {
	Score      int    `json:"score"`                // 0..100
	Level      int    `json:"level"`                // 1..5, see RubricLevel
	Feedback   string `json:"feedback"`             // One short sentence addressed to the student
	Descriptor string `json:"descriptor,omitempty"` // Rubric text for Level, when the activity has one
}

// Grades is a full grading result.
type Grades struct {
	Content       DimensionGrade `json:"content"`
	Understanding DimensionGrade `json:"understanding"`
	Connections   DimensionGrade `json:"connections"`
	Evidence      DimensionGrade `json:"evidence"`
	Strategy      string         `json:"strategy"`
}

// Of returns the grade for d.
func (g *Grades) Of(d activity.Dimension) *DimensionGrade {
	switch d {
	case activity.DimensionContent:
		return &g.Content
	case activity.DimensionUnderstanding:
		return &g.Understanding
	case activity.DimensionConnections:
		return &g.Connections
	case activity.DimensionEvidence:
		return &g.Evidence
	}
	return nil
}

// Input is everything a Grader needs, with defaults already applied.
type Input struct {
	Answer           string
	Question         string
	KeywordsContent  []string
	KeywordsEvidence []string
	Rubric           *activity.Rubric
}

// NewInput builds the grading input for answer. a may be nil when the
// answer is not tied to a known activity.
func NewInput(answer string, a *activity.Activity) Input {
	in := Input{Answer: answer}
	if a != nil {
		in.Question = a.Grading.Question
		in.KeywordsContent = a.Grading.KeywordsContent
		in.KeywordsEvidence = a.Grading.KeywordsEvidence
		in.Rubric = a.Rubric
	}
	if strings.TrimSpace(in.Question) == "" {
		in.Question = DefaultQuestion
	}
	if len(in.KeywordsContent) == 0 {
		in.KeywordsContent = DefaultKeywordsContent
	}
	if len(in.KeywordsEvidence) == 0 {
		in.KeywordsEvidence = DefaultKeywordsEvidence
	}
	return in
}

// Grader scores an answer.
type Grader interface {
	Grade(ctx context.Context, in Input) (Grades, error)
}

// RubricLevel maps a 0..100 score onto the rubric's 1..5 scale in bands of 20.
func RubricLevel(score int) int {
	switch {
	case score < 20:
		return 1
	case score < 40:
		return 2
	case score < 60:
		return 3
	case score < 80:
		return 4
	default:
		return 5
	}
}

// Describe returns the rubric descriptor matching score for d, or "".
func Describe(r *activity.Rubric, d activity.Dimension, score int) string {
	return r.Dimension(d)[RubricLevel(score)]
}

// finish clamps scores and fills in levels and descriptors.
func finish(g Grades, r *activity.Rubric) Grades {
	for _, d := range activity.Dimensions {
		dg := g.Of(d)
		dg.Score = clamp(dg.Score)
		dg.Level = RubricLevel(dg.Score)
		dg.Descriptor = Describe(r, d, dg.Score)
	}
	return g
}

func clamp(score int) int {
	return max(0, min(100, score))
}
