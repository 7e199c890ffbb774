package generate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhabedank/activity-parser/internal/activity"
	"github.com/dhabedank/activity-parser/internal/store"
)

type staticAdapter struct {
	output string
	user   string
}

func (s *staticAdapter) Name() string      { return "static" }
func (s *staticAdapter) IsAvailable() bool { return true }
func (s *staticAdapter) Generate(_ context.Context, _, user string) (string, error) {
	s.user = user
	return s.output, nil
}

const refineOriginal = `---
title: Canadian Drought
thumbnail: /assets/q1card.png
pdf: /assets/drought-reading.pdf
---
# Question
What happened?

## Meta
- tag: Comprehension
`

func TestRefine(t *testing.T) {
	s := store.New(t.TempDir())
	_, err := s.Save("drought-q1-comprehension", refineOriginal, store.CollisionOverwrite)
	require.NoError(t, err)

	fake := &staticAdapter{output: "```markdown\n---\ntitle: Renamed\npdf: /elsewhere.pdf\n---\n# Question\nHow did the drought change forests?\n\n## Meta\n- tag: Comprehension\n```"}
	g := New(Options{Adapter: fake, Store: s})

	item, err := g.Refine(context.Background(), RefineRequest{
		Slug:     "drought-q1-comprehension",
		Raw:      refineOriginal,
		Feedback: "Ask about forests, not farms.",
		Persist:  true,
	})
	require.NoError(t, err)

	assert.Contains(t, fake.user, "CURRENT ACTIVITY:\n---\ntitle: Canadian Drought")
	assert.Contains(t, fake.user, "FEEDBACK:\nAsk about forests, not farms.")

	assert.Equal(t, Comprehension, item.Type)
	assert.Equal(t, "How did the drought change forests?", item.Activity.Question.Text)
	// Pinned fields survive the revision.
	assert.Equal(t, "Canadian Drought", item.Activity.Title)
	assert.Equal(t, "/assets/drought-reading.pdf", item.Activity.PDF)
	assert.Equal(t, "/assets/q1card.png", item.Activity.Thumbnail)

	stored, err := s.Load("drought-q1-comprehension")
	require.NoError(t, err)
	assert.Equal(t, item.Activity.Question.Text, stored.Question.Text)
	assert.Equal(t, "Canadian Drought", stored.Title)
}

func TestRefineValidation(t *testing.T) {
	g := New(Options{Adapter: &staticAdapter{output: "x"}})

	_, err := g.Refine(context.Background(), RefineRequest{Slug: "a", Raw: refineOriginal})
	var verr *activity.ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = g.Refine(context.Background(), RefineRequest{Slug: "a", Raw: refineOriginal, Feedback: "more", Persist: true})
	assert.Error(t, err, "persisting needs a store")

	_, err = g.Refine(context.Background(), RefineRequest{Slug: "a", Raw: "---\ntitle: [x\n---\n", Feedback: "more"})
	assert.ErrorIs(t, err, activity.ErrFrontMatter)

	_, err = New(Options{Adapter: &staticAdapter{output: "```markdown\n```"}}).
		Refine(context.Background(), RefineRequest{Slug: "a", Raw: refineOriginal, Feedback: "more"})
	assert.ErrorContains(t, err, "empty document")
}
