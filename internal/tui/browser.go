package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/dhabedank/activity-parser/internal/activity"
)

type activityItem struct {
	a activity.Activity
}

func (i activityItem) Title() string { return i.a.Title }
func (i activityItem) Description() string {
	if i.a.Question.Tag == "" {
		return i.a.Slug
	}
	return i.a.Question.Tag + " · " + i.a.Slug
}
func (i activityItem) FilterValue() string { return filterText(i.a) }

func filterText(a activity.Activity) string {
	return strings.Join(append([]string{a.Slug, a.Title, a.Question.Text}, a.Topics...), " ")
}

// FuzzyFilter ranks list items with sahilm/fuzzy.
func FuzzyFilter(term string, targets []string) []list.Rank {
	matches := fuzzy.Find(term, targets)
	ranks := make([]list.Rank, len(matches))
	for i, m := range matches {
		ranks[i] = list.Rank{Index: m.Index, MatchedIndexes: m.MatchedIndexes}
	}
	return ranks
}

type activitySource []activity.Activity

func (s activitySource) String(i int) string { return strings.ToLower(filterText(s[i])) }
func (s activitySource) Len() int            { return len(s) }

// FilterActivities returns the activities matching query, best match first.
// An empty query returns every activity unchanged.
func FilterActivities(query string, activities []activity.Activity) []activity.Activity {
	if strings.TrimSpace(query) == "" {
		return activities
	}
	matches := fuzzy.FindFrom(strings.ToLower(query), activitySource(activities))
	out := make([]activity.Activity, len(matches))
	for i, m := range matches {
		out[i] = activities[m.Index]
	}
	return out
}

// Browser lists activities and shows a rendered detail view on enter.
type Browser struct {
	list     list.Model
	viewport viewport.Model
	style    string
	detail   bool
	width    int
	height   int
	err      error
}

// NewBrowser creates a browser. An empty style picks one from the terminal background.
func NewBrowser(activities []activity.Activity, style string) Browser {
	items := make([]list.Item, len(activities))
	for i, a := range activities {
		items[i] = activityItem{a: a}
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(ColorPrimary).BorderForeground(ColorPrimary)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(ColorMuted).BorderForeground(ColorPrimary)

	l := list.New(items, delegate, DefaultWrap, 20)
	l.Title = "Activities"
	l.Styles.Title = TitleStyle
	l.Filter = FuzzyFilter

	return Browser{
		list:     l,
		viewport: viewport.New(DefaultWrap, 20),
		style:    style,
	}
}

// Init implements tea.Model.
func (m Browser) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(msg.Width, msg.Height-1)
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - 3
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.detail {
			switch msg.String() {
			case "esc", "backspace", "left", "h":
				m.detail = false
				return m, nil
			case "q":
				return m, tea.Quit
			}
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		if m.list.FilterState() != list.Filtering {
			switch msg.String() {
			case "enter":
				if item, ok := m.list.SelectedItem().(activityItem); ok {
					m.open(item.a)
				}
				return m, nil
			case "q":
				return m, tea.Quit
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Browser) open(a activity.Activity) {
	content, err := RenderActivity(a, m.style, m.viewport.Width)
	if err != nil {
		m.err = err
		content = ActivityMarkdown(a)
	}
	m.viewport.SetContent(content)
	m.viewport.GotoTop()
	m.detail = true
}

// Detail reports whether the detail view is open.
func (m Browser) Detail() bool {
	return m.detail
}

// View implements tea.Model.
func (m Browser) View() string {
	if !m.detail {
		return m.list.View()
	}
	footer := HelpStyle.Render(fmt.Sprintf("  ↑/↓: scroll • esc: back • q: quit  %3.f%%", m.viewport.ScrollPercent()*100))
	if m.err != nil {
		footer = ErrorStyle.Render("  "+m.err.Error()) + "\n" + footer
	}
	return m.viewport.View() + "\n" + footer
}
