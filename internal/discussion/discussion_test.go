package discussion

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhabedank/activity-parser/internal/activity"
)

type fakeAdapter struct {
	reply  string
	prompt string
}

func (f *fakeAdapter) Name() string      { return "fake" }
func (f *fakeAdapter) IsAvailable() bool { return true }
func (f *fakeAdapter) Generate(_ context.Context, _, user string) (string, error) {
	f.prompt = user
	return f.reply, nil
}

const goodReply = `{
  "jamie": {"message": "Oh, the forests too!", "updatedOpinion": "Forests burned.", "status": "yellow", "thoughtProcess": "Convinced a bit"},
  "thomas": {"message": "Which numbers?", "updatedOpinion": "Need hectares.", "status": "RED", "thoughtProcess": "No evidence yet"},
  "checklist": {"analogy": false, "example": true, "story": false},
  "facts": ["6.5 million hectares"]
}`

func testActivity() activity.Activity {
	return activity.Activity{
		Question: activity.Question{Text: "How did drought affect forestry?"},
		Themes:   []string{"Wildfires", "Evacuations"},
		CharacterPositions: activity.CharacterPositions{
			Jamie:  activity.Position{Opinion: "Farms suffered most.", Status: activity.StatusRed},
			Thomas: activity.Position{Opinion: "Evidence is thin.", Status: activity.StatusYellow},
		},
		Checklist: []activity.ChecklistItem{{ID: "analogy", Label: "Use an analogy"}},
	}
}

func TestInitialState(t *testing.T) {
	s := InitialState(testActivity())
	assert.Equal(t, "Farms suffered most.", s.Jamie.Opinion)
	assert.Equal(t, activity.StatusRed, s.Jamie.Status)
	assert.Equal(t, activity.StatusYellow, s.Thomas.Status)
}

func TestReply(t *testing.T) {
	fake := &fakeAdapter{reply: "```json\n" + goodReply + "\n```"}
	o := &Orchestrator{Adapter: fake}
	a := testActivity()

	reply, err := o.Reply(context.Background(), Request{
		Messages: []Message{
			{Role: "assistant", Character: "jamie", Content: "Hi!"},
			{Role: "user", Content: "Wildfires burned forests."},
		},
		Activity: &a,
	})
	require.NoError(t, err)

	assert.Equal(t, []Response{
		{Character: "jamie", Message: "Oh, the forests too!"},
		{Character: "thomas", Message: "Which numbers?"},
	}, reply.Responses)
	assert.Equal(t, activity.StatusYellow, reply.UpdatedState.Jamie.Status)
	assert.Equal(t, "Need hectares.", reply.UpdatedState.Thomas.Opinion)
	assert.True(t, reply.Checklist["example"])
	assert.JSONEq(t, `["6.5 million hectares"]`, string(reply.Facts))

	assert.Contains(t, fake.prompt, "DISCUSSION QUESTION: How did drought affect forestry?")
	assert.Contains(t, fake.prompt, "2 total):\n1. Wildfires\n2. Evacuations\n")
	assert.Contains(t, fake.prompt, "JAMIE: Hi!\nUser: Wildfires burned forests.\n")
	assert.Contains(t, fake.prompt, `"opinion":"Farms suffered most."`)
}

func TestBuildPromptTrimsHistory(t *testing.T) {
	var messages []Message
	for i := 0; i < 20; i++ {
		messages = append(messages, Message{Role: "user", Content: fmt.Sprintf("message %02d", i)})
	}
	o := &Orchestrator{HistoryLimit: 5}
	prompt := o.BuildPrompt(Request{Messages: messages})

	assert.NotContains(t, prompt, "message 14")
	assert.Contains(t, prompt, "message 15")
	assert.Contains(t, prompt, "message 19")
	assert.Equal(t, 5, strings.Count(prompt, "User: message"))
}

func TestReplyErrors(t *testing.T) {
	o := &Orchestrator{Adapter: &fakeAdapter{reply: goodReply}}
	_, err := o.Reply(context.Background(), Request{})
	assert.Error(t, err)

	_, err = (&Orchestrator{}).Reply(context.Background(), Request{Messages: []Message{{Role: "user", Content: "hi"}}})
	assert.Error(t, err)
}

func TestParseReplyRequiresBothPersonas(t *testing.T) {
	_, err := ParseReply(`{"jamie": {"message": "hi"}}`)
	assert.Error(t, err)

	_, err = ParseReply("not json")
	assert.Error(t, err)
}
