package grading

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhabedank/activity-parser/internal/activity"
)

type fakeAdapter struct {
	reply  string
	err    error
	prompt string
}

func (f *fakeAdapter) Name() string      { return "fake" }
func (f *fakeAdapter) IsAvailable() bool { return true }
func (f *fakeAdapter) Generate(_ context.Context, _, user string) (string, error) {
	f.prompt = user
	return f.reply, f.err
}

func TestRubricLevel(t *testing.T) {
	tests := []struct {
		score, want int
	}{
		{0, 1}, {19, 1}, {20, 2}, {39, 2}, {40, 3}, {59, 3}, {60, 4}, {79, 4}, {80, 5}, {100, 5},
	}
	for _, tt := range tests {
		if got := RubricLevel(tt.score); got != tt.want {
			t.Errorf("RubricLevel(%d) = %d, want %d", tt.score, got, tt.want)
		}
	}
}

func TestDescribe(t *testing.T) {
	r := &activity.Rubric{Content: activity.Levels{1: "none", 3: "some"}}
	assert.Equal(t, "some", Describe(r, activity.DimensionContent, 45))
	assert.Equal(t, "", Describe(r, activity.DimensionContent, 90))
	assert.Equal(t, "", Describe(r, activity.DimensionEvidence, 10))
	assert.Equal(t, "", Describe(nil, activity.DimensionContent, 10))
}

func TestNewInputDefaults(t *testing.T) {
	in := NewInput("answer", nil)
	assert.Equal(t, DefaultQuestion, in.Question)
	assert.Equal(t, DefaultKeywordsContent, in.KeywordsContent)
	assert.Equal(t, DefaultKeywordsEvidence, in.KeywordsEvidence)
	assert.Nil(t, in.Rubric)

	a := &activity.Activity{Grading: activity.Grading{
		Question:        "Why?",
		KeywordsContent: []string{"rain"},
	}}
	in = NewInput("answer", a)
	assert.Equal(t, "Why?", in.Question)
	assert.Equal(t, []string{"rain"}, in.KeywordsContent)
	assert.Equal(t, DefaultKeywordsEvidence, in.KeywordsEvidence)
}

func TestKeywordGrader(t *testing.T) {
	in := Input{
		Answer:           "Wildfires burned the forest and people were evacuated.",
		KeywordsContent:  []string{"wildfire", "forest", "evacuat", "health"},
		KeywordsEvidence: []string{"6.5 million", "hectare"},
	}
	g, err := KeywordGrader{}.Grade(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, StrategyKeyword, g.Strategy)
	// 3 of 4 content keywords.
	assert.Equal(t, 75, g.Content.Score)
	assert.Equal(t, 4, g.Content.Level)
	assert.Equal(t, "3 of 4 key themes identified.", g.Content.Feedback)
	// 8 words: 8/50*70+10 = 21.2
	assert.Equal(t, 21, g.Understanding.Score)
	// 0.75*60+10 = 55
	assert.Equal(t, 55, g.Connections.Score)
	assert.Equal(t, 0, g.Evidence.Score)
	assert.Equal(t, 1, g.Evidence.Level)
	assert.Equal(t, "0 specific details from the text cited.", g.Evidence.Feedback)
}

func TestKeywordGraderCapsUnderstanding(t *testing.T) {
	long := ""
	for i := 0; i < 120; i++ {
		long += "word "
	}
	g, err := KeywordGrader{}.Grade(context.Background(), NewInput(long, nil))
	require.NoError(t, err)
	assert.Equal(t, 80, g.Understanding.Score)
	assert.Equal(t, 10, g.Connections.Score)
}

func TestKeywordGraderDescriptors(t *testing.T) {
	r := &activity.Rubric{Evidence: activity.Levels{5: "Details woven throughout"}}
	in := Input{
		Answer:           "6.5 million hectares",
		KeywordsContent:  []string{"x"},
		KeywordsEvidence: []string{"6.5 million", "hectare"},
		Rubric:           r,
	}
	g, err := KeywordGrader{}.Grade(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, 100, g.Evidence.Score)
	assert.Equal(t, "Details woven throughout", g.Evidence.Descriptor)
	assert.Empty(t, g.Content.Descriptor)
}

func TestParseModelGrades(t *testing.T) {
	reply := "```json\n" + `{
  "content": {"score": 72.6, "feedback": " You covered most themes. "},
  "understanding": {"score": 140, "feedback": "Clear."},
  "connections": {"level": 2, "feedback": "Link causes."},
  "evidence": {"score": -5, "feedback": "Cite numbers."}
}` + "\n```"

	g, err := ParseModelGrades(reply)
	require.NoError(t, err)
	assert.Equal(t, StrategyModel, g.Strategy)
	assert.Equal(t, 73, g.Content.Score)
	assert.Equal(t, "You covered most themes.", g.Content.Feedback)
	assert.Equal(t, 100, g.Understanding.Score)
	assert.Equal(t, 30, g.Connections.Score)
	assert.Equal(t, 0, g.Evidence.Score)
}

func TestParseModelGradesOutOfRange(t *testing.T) {
	reply := `{
  "content": {"score": 1e20},
  "understanding": {"score": -1e20},
  "connections": {"level": 1e20},
  "evidence": {"level": -3}
}`

	g, err := ParseModelGrades(reply)
	require.NoError(t, err)
	assert.Equal(t, 100, g.Content.Score)
	assert.Equal(t, 0, g.Understanding.Score)
	assert.Equal(t, 90, g.Connections.Score)
	assert.Equal(t, 10, g.Evidence.Score)
}

func TestParseModelGradesErrors(t *testing.T) {
	for name, reply := range map[string]string{
		"no json":           "I think this answer is great!",
		"bad json":          `{"content": {"score": }`,
		"missing dimension": `{"content": {"score": 1}, "understanding": {"score": 1}, "connections": {"score": 1}}`,
		"no score":          `{"content": {"feedback": "x"}, "understanding": {"score": 1}, "connections": {"score": 1}, "evidence": {"score": 1}}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseModelGrades(reply)
			assert.Error(t, err)
		})
	}
}

func TestModelGrader(t *testing.T) {
	fake := &fakeAdapter{reply: `{"content":{"score":85,"feedback":"a"},"understanding":{"score":50,"feedback":"b"},"connections":{"score":30,"feedback":"c"},"evidence":{"score":10,"feedback":"d"}}`}
	rubric := &activity.Rubric{Content: activity.Levels{5: "Mentions all themes"}}
	in := NewInput("My answer", &activity.Activity{
		Grading: activity.Grading{Question: "Why did it burn?"},
		Rubric:  rubric,
	})

	g, err := ModelGrader{Adapter: fake}.Grade(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, 5, g.Content.Level)
	assert.Equal(t, "Mentions all themes", g.Content.Descriptor)
	assert.Equal(t, 3, g.Understanding.Level)

	assert.Contains(t, fake.prompt, `Grade this response to: "Why did it burn?"`)
	assert.Contains(t, fake.prompt, `Response: "My answer"`)
	assert.Contains(t, fake.prompt, "Content:\n  Level 5: Mentions all themes")
}

func TestModelGraderWithoutRubricOmitsRubricBlock(t *testing.T) {
	prompt := BuildGradingPrompt(NewInput("answer", nil))
	assert.NotContains(t, prompt, "RUBRIC")
	assert.Contains(t, prompt, "Key themes (9): wildfire, forest")
}

func TestFallbackGrader(t *testing.T) {
	ctx := context.Background()
	in := NewInput("Wildfires burned the forest.", nil)

	failing := ModelGrader{Adapter: &fakeAdapter{err: errors.New("quota exceeded")}}
	g, err := New(failing, nil).Grade(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, StrategyKeyword, g.Strategy)

	working := ModelGrader{Adapter: &fakeAdapter{reply: `{"content":{"score":1},"understanding":{"score":1},"connections":{"score":1},"evidence":{"score":1}}`}}
	g, err = New(working, nil).Grade(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, StrategyModel, g.Strategy)

	g, err = New(nil, nil).Grade(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, StrategyKeyword, g.Strategy)
}
