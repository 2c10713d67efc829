package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/circles/internal/constants"
	"github.com/julianstephens/circles/internal/models"
	"github.com/julianstephens/circles/internal/streak"
	"github.com/julianstephens/circles/internal/utils"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case constants.StateHome:
		content = m.viewHome()
	case constants.StateHistory:
		content = m.viewHistory()
	case constants.StateTracker:
		content = m.viewTracker()
	case constants.StateCircles:
		content = m.viewCircles()
	case constants.StateSettings:
		content = m.viewSettings()
	case constants.StateAddBehavior, constants.StateLogEvent:
		content = docStyle.Render(m.form.View())
	case constants.StateConfirmDelete:
		content = m.viewConfirmation()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		m.viewStatus(),
		content,
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	active := m.state
	if !isTab(active) {
		active = m.previousState
	}
	var out []string
	for _, t := range tabs {
		if t.state == active {
			out = append(out, activeTabStyle.Render(t.title))
		} else {
			out = append(out, inactiveTabStyle.Render(t.title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, out...)
}

// viewStatus shows unsaved changes first; they outlive any one-shot message.
func (m Model) viewStatus() string {
	if err := m.store.PersistErr(); err != nil {
		return warningStyle.Render("⚠ Changes not saved: " + err.Error())
	}
	if m.status != "" {
		return mutedStyle.Render(m.status)
	}
	return ""
}

func countCard(title string, counts models.CircleCounts) string {
	var b strings.Builder
	b.WriteString(headingStyle.Render(title))
	b.WriteString("\n")
	for _, c := range models.AllCircles {
		b.WriteString(fmt.Sprintf("%s %s\n", circleStyle(c).Width(8).Render(c.Label()), bigNumberStyle.Render(fmt.Sprint(counts.Get(c)))))
	}
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%d total", counts.Total())))
	return cardStyle.Render(b.String())
}

func (m Model) viewHome() string {
	now := m.now()
	prefs := m.store.GetPreferences()

	cards := []string{countCard("Today", m.store.GetTodayEventCounts())}

	if prefs.ShowDaysSinceInner {
		days := 0
		if last, ok := m.store.GetLastInnerEvent(); ok {
			days = streak.DaysSince(last.Timestamp, now)
		}
		cards = append(cards, cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			headingStyle.Render("Days since inner"),
			bigNumberStyle.Render(fmt.Sprint(days)),
			mutedStyle.Render(streak.InnerStreakMessage(days)),
		)))
	}

	sobriety := streak.Since(prefs.SobrietyStartDate, now.In(m.store.Location()))
	message := "Log your first inner circle event or set a start date in settings"
	if prefs.SobrietyStartDate != nil {
		message = streak.SobrietyMessage(streak.DaysSince(*prefs.SobrietyStartDate, now))
	}
	cards = append(cards, cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		headingStyle.Render("Sobriety"),
		bigNumberStyle.Render(sobriety.String()),
		mutedStyle.Render(message),
	)))

	return docStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top, cards...))
}

func (m Model) viewHistory() string {
	header := mutedStyle.Render(fmt.Sprintf("Showing: %s", m.timeline.Filter().Label()))
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, header, "", m.timeline.View()))
}

func (m Model) viewTracker() string {
	return docStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top,
		countCard(fmt.Sprintf("Last %d days", constants.ShortPeriodDays), m.store.GetEventCountsForPeriod(constants.ShortPeriodDays)),
		countCard(fmt.Sprintf("Last %d days", constants.LongPeriodDays), m.store.GetEventCountsForPeriod(constants.LongPeriodDays)),
	))
}

func (m Model) viewCircles() string {
	if m.store.GetPreferences().HasCompletedOnboarding {
		return docStyle.Render(m.behaviors.View())
	}
	banner := warningStyle.Render("Welcome! Add the behaviors you want to track in each circle, then press 'c' to finish setup.")
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, banner, m.behaviors.View()))
}

func (m Model) viewSettings() string {
	prefs := m.store.GetPreferences()
	onOff := func(b bool) string {
		if b {
			return "on"
		}
		return "off"
	}
	start := "not set"
	if prefs.SobrietyStartDate != nil {
		start = utils.FormatDate(*prefs.SobrietyStartDate, m.store.Location())
	}

	lines := []string{
		headingStyle.Render("Settings"),
		fmt.Sprintf("Show days since inner:  %s", onOff(prefs.ShowDaysSinceInner)),
		fmt.Sprintf("Setup complete:         %s", onOff(prefs.HasCompletedOnboarding)),
		fmt.Sprintf("Sobriety start date:    %s", start),
		fmt.Sprintf("Behaviors tracked:      %d", len(m.store.GetBehaviors(""))),
		"",
		mutedStyle.Render("Edit your circles on the Circles tab. Set a start date with 'circles prefs set --sobriety-start'."),
	}
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m Model) viewConfirmation() string {
	msg := ""
	if m.confirmation != nil {
		msg = m.confirmation.Message
	}
	return lipgloss.Place(m.width, max(m.height-4, 1),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(msg),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
