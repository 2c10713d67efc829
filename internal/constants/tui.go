package constants

import tea "github.com/charmbracelet/bubbletea"

// SessionState represents the current state of the TUI application
type SessionState int

// ConfirmationMsg is a message to trigger a confirmation dialog
type ConfirmationMsg struct {
	Message string
	Action  func() tea.Cmd
}

const (
	StateHome SessionState = iota
	StateHistory
	StateTracker
	StateCircles
	StateSettings
	StateAddBehavior
	StateLogEvent
	StateConfirmDelete
)

// Circle colors (ANSI 256)
const (
	ColorInner  = "196"
	ColorMiddle = "214"
	ColorOuter  = "42"
	ColorMuted  = "240"
	ColorAccent = "205"
)
