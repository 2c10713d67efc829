// Package timeline renders the event history grouped by day in a
// scrollable viewport.
package timeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/circles/internal/constants"
	"github.com/julianstephens/circles/internal/history"
	"github.com/julianstephens/circles/internal/models"
	"github.com/julianstephens/circles/internal/utils"
)

var (
	dayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(constants.ColorAccent)).
			Bold(true)

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(7)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	noteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(constants.ColorMuted)).
			Italic(true)

	circleStyles = map[models.CircleType]lipgloss.Style{
		models.CircleInner:  lipgloss.NewStyle().Foreground(lipgloss.Color(constants.ColorInner)).Width(8),
		models.CircleMiddle: lipgloss.NewStyle().Foreground(lipgloss.Color(constants.ColorMiddle)).Width(8),
		models.CircleOuter:  lipgloss.NewStyle().Foreground(lipgloss.Color(constants.ColorOuter)).Width(8),
	}
)

type Model struct {
	viewport viewport.Model
	days     []history.Day
	names    history.Names
	filter   history.Filter
	loc      *time.Location
	now      time.Time
}

func New(width, height int) Model {
	return Model{
		viewport: viewport.New(width, height),
		filter:   history.FilterAll,
		loc:      time.Local,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

// SetEvents replaces the displayed events. events must be newest first.
func (m *Model) SetEvents(events []models.Event, behaviors []models.Behavior, loc *time.Location, now time.Time) {
	m.loc = loc
	m.now = now
	m.names = history.NewNames(behaviors)
	m.days = history.GroupByDay(m.filter.Apply(events), loc)
	m.Render()
}

func (m Model) Filter() history.Filter { return m.filter }

// SetFilter changes the filter. Callers must call SetEvents afterwards.
func (m *Model) SetFilter(f history.Filter) {
	m.filter = f
}

func (m Model) Days() []history.Day { return m.days }

func (m *Model) Render() {
	if len(m.days) == 0 {
		m.viewport.SetContent(fmt.Sprintf("No %s events logged yet.", strings.ToLower(m.filter.Label())))
		return
	}

	var b strings.Builder
	for i, day := range m.days {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(dayStyle.Render(day.Title(m.now)))
		b.WriteString("\n")
		for _, e := range day.Events {
			b.WriteString(fmt.Sprintf("  %s %s %s\n",
				timeStyle.Render(utils.FormatClock(e.Timestamp, m.loc)),
				circleStyles[e.CircleType].Render(e.CircleType.Label()),
				nameStyle.Render(m.names.Label(e.BehaviorID)),
			))
			if e.Note != "" {
				b.WriteString("          " + noteStyle.Render(e.Note) + "\n")
			}
		}
	}
	m.viewport.SetContent(b.String())
	m.viewport.GotoTop()
}
