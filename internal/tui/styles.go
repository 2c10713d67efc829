package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/circles/internal/constants"
	"github.com/julianstephens/circles/internal/models"
)

var (
	activeTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(constants.ColorAccent)).
			Background(lipgloss.Color("236")).
			Padding(0, 1).
			Bold(true)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(constants.ColorMuted)).
				Padding(0, 1)

	dangerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(constants.ColorInner)).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(constants.ColorMiddle)).
			Italic(true)

	headingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(constants.ColorAccent)).
			Bold(true).
			MarginBottom(1)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(constants.ColorMuted))

	bigNumberStyle = lipgloss.NewStyle().Bold(true)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(constants.ColorMuted)).
			Padding(0, 2).
			MarginRight(1)

	docStyle = lipgloss.NewStyle().Padding(1, 2)
)

func circleStyle(c models.CircleType) lipgloss.Style {
	switch c {
	case models.CircleInner:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(constants.ColorInner)).Bold(true)
	case models.CircleMiddle:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(constants.ColorMiddle)).Bold(true)
	case models.CircleOuter:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(constants.ColorOuter)).Bold(true)
	}
	return mutedStyle
}
