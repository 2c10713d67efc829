package behaviorlist

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/circles/internal/models"
)

type AddBehaviorMsg struct{}

type LogEventMsg struct {
	Behavior models.Behavior
}

type DeleteBehaviorMsg struct {
	Behavior models.Behavior
}

type Item struct {
	Behavior   models.Behavior
	TodayCount int
}

var circleMarks = map[models.CircleType]string{
	models.CircleInner:  "● ",
	models.CircleMiddle: "◐ ",
	models.CircleOuter:  "○ ",
}

func (i Item) Title() string { return circleMarks[i.Behavior.CircleType] + i.Behavior.Name }

func (i Item) Description() string {
	desc := i.Behavior.CircleType.Label() + " circle"
	if i.Behavior.Description != "" {
		desc += " | " + i.Behavior.Description
	}
	if i.TodayCount > 0 {
		desc += " | logged today"
	}
	return desc
}

func (i Item) FilterValue() string { return i.Behavior.Name }

type KeyMap struct {
	Add    key.Binding
	Log    key.Binding
	Delete key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Log: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "log"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

// New lists behaviors grouped by circle, innermost first. todayCounts maps
// behavior ids to the number of events logged today.
func New(behaviors []models.Behavior, todayCounts map[string]int, width, height int) Model {
	l := list.New(items(behaviors, todayCounts), list.NewDefaultDelegate(), width, height)
	l.Title = "Circles"
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Log, keys.Delete}
	}
	l.AdditionalFullHelpKeys = l.AdditionalShortHelpKeys

	return Model{list: l, keys: keys}
}

func items(behaviors []models.Behavior, todayCounts map[string]int) []list.Item {
	out := make([]list.Item, 0, len(behaviors))
	for _, c := range models.AllCircles {
		for _, b := range behaviors {
			if b.CircleType == c {
				out = append(out, Item{Behavior: b, TodayCount: todayCounts[b.ID]})
			}
		}
	}
	return out
}

func (m *Model) SetBehaviors(behaviors []models.Behavior, todayCounts map[string]int) {
	m.list.SetItems(items(behaviors, todayCounts))
}

// Selected returns the highlighted behavior.
func (m Model) Selected() (models.Behavior, bool) {
	i, ok := m.list.SelectedItem().(Item)
	return i.Behavior, ok
}

func (m Model) Len() int { return len(m.list.Items()) }

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddBehaviorMsg{} }
		case key.Matches(msg, m.keys.Log):
			if b, ok := m.Selected(); ok {
				return m, func() tea.Msg { return LogEventMsg{Behavior: b} }
			}
		case key.Matches(msg, m.keys.Delete):
			if b, ok := m.Selected(); ok {
				return m, func() tea.Msg { return DeleteBehaviorMsg{Behavior: b} }
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No behaviors yet.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}

func (m Model) KeyBindings() []key.Binding {
	return []key.Binding{m.keys.Add, m.keys.Log, m.keys.Delete}
}

// Filtering reports whether the list is capturing keys for its filter input.
func (m Model) Filtering() bool { return m.list.FilterState() == list.Filtering }
