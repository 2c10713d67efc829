// Package tui is the interactive circles app. It reads and mutates a
// *datastore.Store and redraws whenever the store reports a change.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/circles/internal/constants"
	"github.com/julianstephens/circles/internal/datastore"
	"github.com/julianstephens/circles/internal/models"
	"github.com/julianstephens/circles/internal/tui/components/behaviorlist"
	"github.com/julianstephens/circles/internal/tui/components/timeline"
	"github.com/julianstephens/circles/internal/utils"
)

// StoreChangedMsg is sent by the store subscription after every mutation
// or reload.
type StoreChangedMsg struct{}

var tabs = []struct {
	state constants.SessionState
	title string
}{
	{constants.StateHome, "Home"},
	{constants.StateHistory, "History"},
	{constants.StateTracker, "Tracker"},
	{constants.StateCircles, "Circles"},
	{constants.StateSettings, "Settings"},
}

type BehaviorFormModel struct {
	Circle      models.CircleType
	Name        string
	Description string
}

type NoteFormModel struct {
	Behavior models.Behavior
	Note     string
}

type Model struct {
	ctx   context.Context
	store *datastore.Store
	now   func() time.Time

	state         constants.SessionState
	previousState constants.SessionState
	keys          KeyMap
	help          help.Model

	behaviors behaviorlist.Model
	timeline  timeline.Model

	form         *huh.Form
	behaviorForm *BehaviorFormModel
	noteForm     *NoteFormModel
	confirmation *constants.ConfirmationMsg

	// status is a one-shot message shown under the tabs until the next key.
	status   string
	quitting bool
	width    int
	height   int
}

// NewModel builds the app on top of an initialized store. Until onboarding
// is complete the app opens on the circles tab.
func NewModel(ctx context.Context, store *datastore.Store) Model {
	m := Model{
		ctx:       ctx,
		store:     store,
		now:       time.Now,
		state:     constants.StateHome,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		behaviors: behaviorlist.New(nil, nil, 0, 0),
		timeline:  timeline.New(0, 0),
	}
	if !store.GetPreferences().HasCompletedOnboarding {
		m.state = constants.StateCircles
	}
	m.refresh()
	return m
}

// refresh reloads every component from the store.
func (m *Model) refresh() {
	now := m.now()
	loc := m.store.Location()

	start := utils.StartOfDay(now, loc)
	end := start.AddDate(0, 0, 1)
	today := make(map[string]int)
	for _, e := range m.store.GetEvents() {
		if !e.Timestamp.Before(start) && e.Timestamp.Before(end) {
			today[e.BehaviorID]++
		}
	}
	m.behaviors.SetBehaviors(m.store.GetBehaviors(""), today)
	m.timeline.SetEvents(m.store.GetEvents(), m.store.GetBehaviors(""), loc, now)
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case constants.StateHistory:
		keys = append(keys, m.keys.Filter)
	case constants.StateCircles:
		keys = append(keys, m.behaviors.KeyBindings()...)
		if !m.store.GetPreferences().HasCompletedOnboarding {
			keys = append(keys, m.keys.Finish)
		}
	case constants.StateSettings:
		keys = append(keys, m.keys.Toggle)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}

	var actions []key.Binding
	switch m.state {
	case constants.StateHistory:
		actions = []key.Binding{m.keys.Filter}
	case constants.StateCircles:
		actions = append(m.behaviors.KeyBindings(), m.keys.Finish)
	case constants.StateSettings:
		actions = []key.Binding{m.keys.Toggle}
	}
	return [][]key.Binding{global, actions}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func isTab(s constants.SessionState) bool {
	return s <= constants.StateSettings
}
