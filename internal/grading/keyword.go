package grading

import (
	"context"
	"fmt"
	"math"
	"strings"
)

// KeywordGrader scores by counting grading keywords in the answer.
// It never fails and needs no model.
type KeywordGrader struct{}

// Grade implements Grader.
func (KeywordGrader) Grade(_ context.Context, in Input) (Grades, error) {
	lower := strings.ToLower(in.Answer)
	contentHits := countHits(lower, in.KeywordsContent)
	evidenceHits := countHits(lower, in.KeywordsEvidence)

	contentRatio := ratio(contentHits, len(in.KeywordsContent))
	evidenceRatio := ratio(evidenceHits, len(in.KeywordsEvidence))
	words := len(strings.Fields(in.Answer))

	g := Grades{
		Content: DimensionGrade{
			Score:    round(contentRatio * 100),
			Feedback: fmt.Sprintf("%d of %d key themes identified.", contentHits, len(in.KeywordsContent)),
		},
		Understanding: DimensionGrade{
			Score:    round(math.Min(float64(words)/50, 1)*70 + 10),
			Feedback: "Based on response length and structure.",
		},
		Connections: DimensionGrade{
			Score:    round(contentRatio*60 + 10),
			Feedback: "Consider linking cause and effect more explicitly.",
		},
		Evidence: DimensionGrade{
			Score:    round(evidenceRatio * 100),
			Feedback: fmt.Sprintf("%d specific details from the text cited.", evidenceHits),
		},
		Strategy: StrategyKeyword,
	}
	return finish(g, in.Rubric), nil
}

// countHits counts keywords appearing as substrings, so "evacuat" matches "evacuated".
func countHits(lowerAnswer string, keywords []string) int {
	n := 0
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" && strings.Contains(lowerAnswer, k) {
			n++
		}
	}
	return n
}

func ratio(hits, total int) float64 {
	return float64(hits) / float64(max(total, 1))
}

func round(f float64) int {
	return int(math.Round(f))
}
