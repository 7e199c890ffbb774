package generate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dhabedank/activity-parser/internal/activity"
	"github.com/dhabedank/activity-parser/internal/logger"
	"github.com/dhabedank/activity-parser/internal/store"
)

const refineSystemPrompt = `You are an educational content designer revising an existing activity markdown file.

Apply the reviewer's feedback and keep everything the feedback does not mention unchanged. Keep the exact markdown format: YAML frontmatter, then the same sections in the same order. Output ONLY the revised markdown file content, with no explanation and no code fences.`

// BuildRefinePrompt asks the model to revise raw according to feedback.
func BuildRefinePrompt(raw, feedback string) string {
	var b strings.Builder
	b.WriteString("CURRENT ACTIVITY:\n")
	b.WriteString(strings.TrimSpace(raw))
	b.WriteString("\n\nFEEDBACK:\n")
	b.WriteString(strings.TrimSpace(feedback))
	b.WriteString("\n\nRevise the activity to address the feedback. Output ONLY the markdown file content.")
	return b.String()
}

// RefineRequest revises one stored activity.
type RefineRequest struct {
	Slug     string
	Raw      string
	Feedback string
	Persist  bool // Overwrite the stored document
}

// Refine revises an existing activity. The revision keeps the original's
// title, content reference and thumbnail, and must still parse.
func (g *Generator) Refine(ctx context.Context, req RefineRequest) (Item, error) {
	item := Item{Slug: req.Slug}
	if g.adapter == nil {
		return item, errors.New("no LLM adapter configured")
	}
	if strings.TrimSpace(req.Feedback) == "" {
		return item, &activity.ValidationError{Field: "feedback", Message: "feedback is required"}
	}
	if req.Persist && g.store == nil {
		return item, errors.New("cannot persist refined activity without a store")
	}

	original, err := activity.Parse(req.Raw, req.Slug)
	if err != nil {
		return item, fmt.Errorf("current activity does not parse: %w", err)
	}
	item.Type = QuestionType(strings.ToLower(original.Question.Tag))

	output, err := g.adapter.Generate(ctx, refineSystemPrompt, BuildRefinePrompt(req.Raw, req.Feedback))
	if err != nil {
		return item, fmt.Errorf("%s: %w", g.adapter.Name(), err)
	}
	raw := CleanMarkdown(output)
	if raw == "" {
		return item, fmt.Errorf("%s returned an empty document", g.adapter.Name())
	}
	raw += "\n"

	revised, err := activity.Parse(raw, req.Slug)
	if err != nil {
		return item, fmt.Errorf("refined document does not parse: %w", err)
	}
	revised, changed := enforce(revised, SetRequest{
		Title:      original.Title,
		ContentRef: original.PDF,
		Thumbnail:  original.Thumbnail,
	}, item.Type)
	if changed {
		if raw, err = activity.Render(revised); err != nil {
			return item, err
		}
	}

	if req.Persist {
		if _, err := g.store.Save(req.Slug, raw, store.CollisionOverwrite); err != nil {
			return item, err
		}
	}
	item.Activity = revised
	item.Raw = raw
	g.log.Info("Activity refined", logger.String("slug", req.Slug), logger.Bool("saved", req.Persist))
	return item, nil
}
