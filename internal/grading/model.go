package grading

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/dhabedank/activity-parser/internal/activity"
	"github.com/dhabedank/activity-parser/internal/llm"
)

// ModelGrader asks an LLM to score the answer.
type ModelGrader struct {
	Adapter llm.Adapter
}

const gradingSystemPrompt = `You grade short student answers about a reading. You are supportive: acknowledge what was done well, and gently suggest what could be improved or explored further. Respond ONLY with valid JSON.`

// BuildGradingPrompt renders the grading request for in.
func BuildGradingPrompt(in Input) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Grade this response to: %q\n\n", in.Question)
	fmt.Fprintf(&b, "Key themes (%d): %s.\n", len(in.KeywordsContent), strings.Join(in.KeywordsContent, ", "))
	fmt.Fprintf(&b, "Key evidence (%d): %s.\n\n", len(in.KeywordsEvidence), strings.Join(in.KeywordsEvidence, ", "))
	fmt.Fprintf(&b, "Response: %q\n\n", in.Answer)

	b.WriteString("Score 0-100 on 4 dimensions. Write feedback in second person (\"you\"), one short encouraging sentence each.\n\n")
	b.WriteString("1. Content: Theme coverage. 0 themes=0-15, 1-2=15-35, 3-4=35-60, 5-6=60-85, 7=85-100.\n")
	b.WriteString("2. Understanding: Clarity, coherence, depth beyond listing facts.\n")
	b.WriteString("3. Connections: Cause-effect links between themes.\n")
	b.WriteString("4. Evidence: Specific numbers, places, or details from the text.\n")

	if rubric := rubricText(in.Rubric); rubric != "" {
		b.WriteString("\nRUBRIC (scores 0-19 = level 1, 20-39 = level 2, 40-59 = level 3, 60-79 = level 4, 80-100 = level 5):\n")
		b.WriteString(rubric)
	}

	b.WriteString(`
Respond ONLY with valid JSON:
{
  "content": {"score": number, "feedback": "short sentence"},
  "understanding": {"score": number, "feedback": "short sentence"},
  "connections": {"score": number, "feedback": "short sentence"},
  "evidence": {"score": number, "feedback": "short sentence"}
}`)
	return b.String()
}

func rubricText(r *activity.Rubric) string {
	var b strings.Builder
	for _, d := range activity.Dimensions {
		levels := r.Dimension(d)
		if len(levels) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s:\n", d.Heading())
		for _, n := range levels.Sorted() {
			fmt.Fprintf(&b, "  Level %d: %s\n", n, levels[n])
		}
	}
	return b.String()
}

// modelDimension accepts either a 0..100 score or a 1..5 level.
type modelDimension struct {
	Score    *float64 `json:"score"`
	Level    *float64 `json:"level"`
	Feedback string   `json:"feedback"`
}

// Grade implements Grader.
func (m ModelGrader) Grade(ctx context.Context, in Input) (Grades, error) {
	if m.Adapter == nil {
		return Grades{}, errors.New("no LLM adapter configured")
	}

	output, err := m.Adapter.Generate(ctx, gradingSystemPrompt, BuildGradingPrompt(in))
	if err != nil {
		return Grades{}, fmt.Errorf("%s: %w", m.Adapter.Name(), err)
	}
	g, err := ParseModelGrades(output)
	if err != nil {
		return Grades{}, err
	}
	return finish(g, in.Rubric), nil
}

// ParseModelGrades decodes the model's JSON reply. Every dimension must carry a
// score or a level; a level is converted to the middle of its score band.
func ParseModelGrades(output string) (Grades, error) {
	jsonStr := llm.ExtractJSON(output)
	if jsonStr == "" {
		return Grades{}, errors.New("no valid JSON in grading response")
	}

	var raw map[string]modelDimension
	if err := json.Unmarshal([]byte(jsonStr), &raw); err != nil {
		return Grades{}, fmt.Errorf("grading JSON parse error: %w", err)
	}

	g := Grades{Strategy: StrategyModel}
	for _, d := range activity.Dimensions {
		md, ok := raw[string(d)]
		if !ok {
			return Grades{}, fmt.Errorf("grading response is missing %s", d)
		}
		dg := g.Of(d)
		dg.Feedback = strings.TrimSpace(md.Feedback)
		switch {
		case md.Score != nil:
			dg.Score = int(math.Round(max(0, min(100, *md.Score))))
		case md.Level != nil:
			level := int(math.Round(max(1, min(5, *md.Level))))
			dg.Score = (level-1)*20 + 10
		default:
			return Grades{}, fmt.Errorf("grading response has no score for %s", d)
		}
	}
	return g, nil
}
