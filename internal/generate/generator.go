// Package generate drafts activity documents from reading text with an LLM.
package generate

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dhabedank/activity-parser/internal/activity"
	"github.com/dhabedank/activity-parser/internal/llm"
	"github.com/dhabedank/activity-parser/internal/logger"
	"github.com/dhabedank/activity-parser/internal/reading"
	"github.com/dhabedank/activity-parser/internal/store"
)

// DefaultTemplate is used when the activities directory has no TEMPLATE.md.
//
//go:embed default_template.md
var DefaultTemplate string

// DefaultConcurrency limits parallel model calls in a set.
const DefaultConcurrency = 3

// Store is where templates come from and generated documents go.
type Store interface {
	Template() (string, error)
	Save(slug, raw string, policy store.CollisionPolicy) (string, error)
}

// Options configures a Generator. Only Adapter is required.
type Options struct {
	Adapter     llm.Adapter
	Store       Store
	Policy      store.CollisionPolicy
	Logger      logger.Logger
	Concurrency int

	// OnItem is called once per finished item, from the generating goroutine.
	OnItem func(Item)
}

// Generator turns reading text into activities.
type Generator struct {
	adapter     llm.Adapter
	store       Store
	policy      store.CollisionPolicy
	log         logger.Logger
	concurrency int
	onItem      func(Item)
}

// New creates a Generator.
func New(opts Options) *Generator {
	g := &Generator{
		adapter:     opts.Adapter,
		store:       opts.Store,
		policy:      opts.Policy,
		log:         opts.Logger,
		concurrency: opts.Concurrency,
		onItem:      opts.OnItem,
	}
	if g.log == nil {
		g.log = logger.NewNop()
	}
	if g.concurrency <= 0 {
		g.concurrency = DefaultConcurrency
	}
	if g.policy == "" {
		g.policy = store.CollisionSuffix
	}
	return g
}

// Template returns the store's TEMPLATE.md, or the built-in template when it has none.
func (g *Generator) Template() string {
	if g.store != nil {
		if t, err := g.store.Template(); err == nil && t != "" {
			return t
		}
	}
	return DefaultTemplate
}

// Generate asks the model for one activity document and returns its markdown.
func (g *Generator) Generate(ctx context.Context, req Request) (string, error) {
	if g.adapter == nil {
		return "", errors.New("no LLM adapter configured")
	}
	if err := reading.ValidateText(req.Reading); err != nil {
		return "", err
	}
	if req.Template == "" {
		req.Template = g.Template()
	}

	output, err := g.adapter.Generate(ctx, SystemPrompt, BuildPrompt(req))
	if err != nil {
		return "", fmt.Errorf("%s: %w", g.adapter.Name(), err)
	}
	raw := CleanMarkdown(output)
	if raw == "" {
		return "", fmt.Errorf("%s returned an empty document", g.adapter.Name())
	}
	return raw + "\n", nil
}

// SetRequest describes a set of activities generated from one reading.
type SetRequest struct {
	BaseSlug   string
	Reading    string
	Title      string
	ContentRef string
	Thumbnail  string
	Types      []QuestionType // Defaults to QuestionTypes
	Persist    bool           // Save each document through the store
}

// Item is the outcome for one question type.
type Item struct {
	Slug     string
	Type     QuestionType
	Activity activity.Activity
	Raw      string
	Err      error
}

// SetResult holds one Item per requested type, in request order.
type SetResult struct {
	Items []Item
}

// Activities returns the successfully generated activities, in request order.
func (r *SetResult) Activities() []activity.Activity {
	out := []activity.Activity{}
	for _, item := range r.Items {
		if item.Err == nil {
			out = append(out, item.Activity)
		}
	}
	return out
}

// Failed counts items that produced no activity.
func (r *SetResult) Failed() int {
	n := 0
	for _, item := range r.Items {
		if item.Err != nil {
			n++
		}
	}
	return n
}

// SetSlug names the Nth (1-based) activity of a set.
func SetSlug(base string, n int, t QuestionType) string {
	return fmt.Sprintf("%s-q%d-%s", base, n, t)
}

// GenerateSet generates one activity per question type in parallel.
// Failed types are logged and skipped; the call fails only when every type failed.
func (g *Generator) GenerateSet(ctx context.Context, req SetRequest) (*SetResult, error) {
	if err := reading.ValidateText(req.Reading); err != nil {
		return nil, err
	}
	if req.Persist && g.store == nil {
		return nil, errors.New("cannot persist generated activities without a store")
	}
	if err := store.ValidateSlug(req.BaseSlug); err != nil {
		return nil, err
	}
	types := req.Types
	if len(types) == 0 {
		types = QuestionTypes
	}
	template := g.Template()

	result := &SetResult{Items: make([]Item, len(types))}
	start := time.Now()

	var wg sync.WaitGroup
	sem := make(chan struct{}, g.concurrency)

	for i, qt := range types {
		wg.Add(1)
		go func(idx int, qt QuestionType) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			item := g.generateItem(ctx, req, template, SetSlug(req.BaseSlug, idx+1, qt), qt)
			result.Items[idx] = item

			if item.Err != nil {
				g.log.Warn("Activity generation failed",
					logger.String("slug", item.Slug),
					logger.String("type", string(qt)),
					logger.Error(item.Err),
				)
			} else {
				g.log.Info("Activity generated",
					logger.String("slug", item.Slug),
					logger.String("type", string(qt)),
				)
			}
			if g.onItem != nil {
				g.onItem(item)
			}
		}(i, qt)
	}
	wg.Wait()

	g.log.Info("Activity set finished",
		logger.String("base_slug", req.BaseSlug),
		logger.Int("generated", len(types)-result.Failed()),
		logger.Int("failed", result.Failed()),
		logger.Duration("duration", time.Since(start)),
	)

	if result.Failed() == len(types) {
		errs := make([]error, 0, len(types))
		for _, item := range result.Items {
			errs = append(errs, fmt.Errorf("%s: %w", item.Type, item.Err))
		}
		return result, fmt.Errorf("failed to generate any activities: %w", errors.Join(errs...))
	}
	return result, nil
}

// GenerateActivity generates a single activity of type qt under slug.
func (g *Generator) GenerateActivity(ctx context.Context, slug string, req SetRequest, qt QuestionType) (Item, error) {
	if req.Persist && g.store == nil {
		return Item{}, errors.New("cannot persist generated activities without a store")
	}
	if err := store.ValidateSlug(slug); err != nil {
		return Item{}, err
	}
	item := g.generateItem(ctx, req, g.Template(), slug, qt)
	return item, item.Err
}

func (g *Generator) generateItem(ctx context.Context, req SetRequest, template, slug string, qt QuestionType) Item {
	item := Item{Slug: slug, Type: qt}

	raw, err := g.Generate(ctx, Request{
		Reading:    req.Reading,
		Title:      req.Title,
		ContentRef: req.ContentRef,
		Thumbnail:  req.Thumbnail,
		Type:       qt,
		Template:   template,
	})
	if err != nil {
		item.Err = err
		return item
	}

	a, err := activity.Parse(raw, slug)
	if err != nil {
		item.Err = fmt.Errorf("generated document does not parse: %w", err)
		return item
	}

	a, changed := enforce(a, req, qt)
	if changed {
		rendered, err := activity.Render(a)
		if err != nil {
			item.Err = err
			return item
		}
		raw = rendered
	}
	item.Activity = a

	if req.Persist {
		saved, err := g.store.Save(slug, raw, g.policy)
		if err != nil {
			item.Err = err
			return item
		}
		item.Slug = saved
		item.Activity.Slug = saved
	}
	item.Raw = raw
	return item
}

// enforce overwrites the fields the prompt pins when the model ignored them.
func enforce(a activity.Activity, req SetRequest, qt QuestionType) (activity.Activity, bool) {
	changed := false
	if req.Title != "" && a.Title != req.Title {
		a.Title = req.Title
		changed = true
	}
	if req.ContentRef != "" && a.PDF != req.ContentRef {
		a = a.WithPDF(req.ContentRef)
		changed = true
	}
	if req.Thumbnail != "" && a.Thumbnail != req.Thumbnail {
		a = a.WithThumbnail(req.Thumbnail)
		changed = true
	}
	if a.Question.Tag == "" {
		a.Question.Tag = qt.Tag()
		changed = true
	}
	return a, changed
}
