package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dhabedank/activity-parser/internal/generate"
)

// ItemState tracks one question type while a set is generated.
type ItemState struct {
	Type  generate.QuestionType
	Slug  string
	Start time.Time
	End   time.Time
	Done  bool
	Err   error
}

// ItemDoneMsg reports a finished item to a running GenerationProgress.
type ItemDoneMsg struct {
	Item generate.Item
}

// SetDoneMsg reports that the whole set has finished.
type SetDoneMsg struct {
	Err error
}

// GenerationProgress is a Bubble Tea model showing one line per question type.
type GenerationProgress struct {
	spinner  spinner.Model
	title    string
	model    string
	items    []ItemState
	estimate Estimate
	finished bool
	err      error
	quitting bool
}

// NewGenerationProgress tracks generation of one activity per type.
func NewGenerationProgress(title, model string, types []generate.QuestionType, estimate Estimate) *GenerationProgress {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	now := time.Now()
	items := make([]ItemState, len(types))
	for i, t := range types {
		items[i] = ItemState{Type: t, Start: now}
	}
	return &GenerationProgress{
		spinner:  s,
		title:    title,
		model:    model,
		items:    items,
		estimate: estimate,
	}
}

// Items returns the tracked items.
func (p *GenerationProgress) Items() []ItemState {
	return p.items
}

// Err is the set error reported by SetDoneMsg.
func (p *GenerationProgress) Err() error {
	return p.err
}

// Cancelled reports whether the user quit before the set finished.
func (p *GenerationProgress) Cancelled() bool {
	return p.quitting && !p.finished
}

func (p *GenerationProgress) complete(item generate.Item) {
	for i := range p.items {
		if p.items[i].Type == item.Type && !p.items[i].Done {
			p.items[i].Done = true
			p.items[i].End = time.Now()
			p.items[i].Slug = item.Slug
			p.items[i].Err = item.Err
			return
		}
	}
}

// Init implements tea.Model.
func (p *GenerationProgress) Init() tea.Cmd {
	return p.spinner.Tick
}

// Update implements tea.Model.
func (p *GenerationProgress) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			p.quitting = true
			return p, tea.Quit
		}

	case ItemDoneMsg:
		p.complete(msg.Item)
		return p, nil

	case SetDoneMsg:
		p.finished = true
		p.err = msg.Err
		return p, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return p, cmd
	}

	return p, nil
}

// View implements tea.Model.
func (p *GenerationProgress) View() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", TitleStyle.Render(p.title), ModelStyle.Render(p.model))
	for _, item := range p.items {
		status := p.spinner.View()
		if item.Done {
			status = statusMark(item.Err)
		}
		b.WriteString(renderItemLine(status, item))
		b.WriteString("\n")
	}
	if p.finished || p.quitting {
		b.WriteString(RenderSummary(p.items, p.estimate))
	}
	return b.String()
}

func statusMark(err error) string {
	if err != nil {
		return ErrorStyle.Render("✗")
	}
	return SuccessStyle.Render("✓")
}

func renderItemLine(status string, item ItemState) string {
	end := item.End
	if !item.Done {
		end = time.Now()
	}
	line := fmt.Sprintf("%s %-14s %s", status, TypeStyle.Render(string(item.Type)), HelpStyle.Render(end.Sub(item.Start).Truncate(time.Second).String()))
	if item.Slug != "" && item.Err == nil {
		line += "  " + item.Slug
	}
	if item.Err != nil {
		line += "  " + ErrorStyle.Render(item.Err.Error())
	}
	return line
}

// RenderStep announces a single model call in non-interactive output.
func RenderStep(label, model string) string {
	return fmt.Sprintf("%s %s  %s", SpinnerStyle.Render("→"), label, ModelStyle.Render(model))
}

// RenderItem returns a completion line for non-interactive output.
func RenderItem(item generate.Item, elapsed time.Duration) string {
	state := ItemState{Type: item.Type, Slug: item.Slug, Done: true, Err: item.Err, End: time.Now()}
	state.Start = state.End.Add(-elapsed)
	return renderItemLine(statusMark(item.Err), state)
}

// RenderSummary totals a finished set.
func RenderSummary(items []ItemState, estimate Estimate) string {
	var ok, failed int
	for _, item := range items {
		switch {
		case !item.Done:
		case item.Err != nil:
			failed++
		default:
			ok++
		}
	}

	summary := fmt.Sprintf("\n%s\n  Generated: %d  Failed: %d  Est. cost: %s\n",
		TitleStyle.Render("Generation Complete"),
		ok,
		failed,
		CostStyle.Render(FormatCost(estimate.Cost)),
	)
	if failed > 0 && ok == 0 {
		summary = fmt.Sprintf("\n%s\n  Every question type failed\n", ErrorStyle.Render("Generation Failed"))
	}
	return summary
}
