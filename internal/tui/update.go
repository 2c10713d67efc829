package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/circles/internal/constants"
	"github.com/julianstephens/circles/internal/datastore"
	"github.com/julianstephens/circles/internal/models"
	"github.com/julianstephens/circles/internal/streak"
	"github.com/julianstephens/circles/internal/tui/components/behaviorlist"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case StoreChangedMsg:
		m.refresh()
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		body := max(msg.Height-6, 1)
		m.behaviors.SetSize(msg.Width-4, body)
		m.timeline.SetSize(msg.Width-4, body)
		return m, nil
	}

	switch m.state {
	case constants.StateAddBehavior:
		return m.updateBehaviorForm(msg)
	case constants.StateLogEvent:
		return m.updateNoteForm(msg)
	case constants.StateConfirmDelete:
		return m.updateConfirmation(msg)
	}

	switch msg := msg.(type) {
	case behaviorlist.AddBehaviorMsg:
		return m.openBehaviorForm()
	case behaviorlist.LogEventMsg:
		return m.openNoteForm(msg.Behavior)
	case behaviorlist.DeleteBehaviorMsg:
		return m.confirm(m.deleteBehaviorConfirmation(msg.Behavior))
	case constants.ConfirmationMsg:
		return m.confirm(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateActiveTab(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.state == constants.StateCircles && m.behaviors.Filtering() {
		return m.updateActiveTab(msg)
	}
	m.status = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Tab):
		m.state = (m.state + 1) % constants.SessionState(len(tabs))
		return m, nil
	case key.Matches(msg, m.keys.ShiftTab):
		m.state = (m.state - 1 + constants.SessionState(len(tabs))) % constants.SessionState(len(tabs))
		return m, nil
	}

	switch m.state {
	case constants.StateHistory:
		if key.Matches(msg, m.keys.Filter) {
			m.timeline.SetFilter(m.timeline.Filter().Next())
			m.refresh()
			return m, nil
		}
	case constants.StateCircles:
		if key.Matches(msg, m.keys.Finish) {
			m.finishOnboarding()
			return m, nil
		}
	case constants.StateSettings:
		if key.Matches(msg, m.keys.Toggle) {
			prefs := m.store.GetPreferences()
			m.store.UpdatePreferences(m.ctx, datastore.ShowDaysSinceInner(!prefs.ShowDaysSinceInner))
			return m, nil
		}
	}
	return m.updateActiveTab(msg)
}

func (m Model) updateActiveTab(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.state {
	case constants.StateHistory:
		m.timeline, cmd = m.timeline.Update(msg)
	case constants.StateCircles:
		m.behaviors, cmd = m.behaviors.Update(msg)
	}
	return m, cmd
}

func (m *Model) finishOnboarding() {
	if len(m.store.GetBehaviors(models.CircleInner)) == 0 {
		m.status = "Add at least one inner circle behavior to finish setup"
		return
	}
	m.store.UpdatePreferences(m.ctx, datastore.CompleteOnboarding(true))
	m.status = "Setup complete"
	m.state = constants.StateHome
}

func (m Model) openBehaviorForm() (tea.Model, tea.Cmd) {
	circle := models.CircleInner
	if b, ok := m.behaviors.Selected(); ok {
		circle = b.CircleType
	}
	m.behaviorForm = &BehaviorFormModel{Circle: circle}
	m.form = newBehaviorForm(m.behaviorForm, m.store.GetBehaviors(""))
	m.previousState = m.state
	m.state = constants.StateAddBehavior
	return m, m.form.Init()
}

func (m Model) openNoteForm(b models.Behavior) (tea.Model, tea.Cmd) {
	m.noteForm = &NoteFormModel{Behavior: b}
	m.form = newNoteForm(m.noteForm)
	m.previousState = m.state
	m.state = constants.StateLogEvent
	return m, m.form.Init()
}

// updateForm forwards msg to the open form and reports whether the user
// finished or left it.
func (m *Model) updateForm(msg tea.Msg) (done bool, cmd tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.closeForm()
		return false, nil
	}
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	switch m.form.State {
	case huh.StateCompleted:
		return true, cmd
	case huh.StateAborted:
		m.closeForm()
	}
	return false, cmd
}

func (m *Model) closeForm() {
	m.form = nil
	m.state = m.previousState
}

func (m Model) updateBehaviorForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	done, cmd := m.updateForm(msg)
	if done {
		m.submitBehaviorForm()
	}
	return m, cmd
}

func (m *Model) submitBehaviorForm() {
	f := m.behaviorForm
	m.closeForm()
	b, err := m.store.AddBehavior(m.ctx, models.NewBehavior{
		CircleType:  f.Circle,
		Name:        f.Name,
		Description: strings.TrimSpace(f.Description),
	})
	if err != nil {
		m.status = err.Error()
		return
	}
	m.status = fmt.Sprintf("Added %q to the %s circle", b.Name, b.CircleType)
	m.refresh()
}

func (m Model) updateNoteForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	done, cmd := m.updateForm(msg)
	if done {
		m.submitNoteForm()
	}
	return m, cmd
}

func (m *Model) submitNoteForm() {
	f := m.noteForm
	m.closeForm()
	e, err := m.store.AddEvent(m.ctx, models.NewEvent{
		BehaviorID: f.Behavior.ID,
		CircleType: f.Behavior.CircleType,
		Note:       strings.TrimSpace(f.Note),
	})
	if err != nil {
		m.status = err.Error()
		return
	}
	m.status = fmt.Sprintf("Logged %s", f.Behavior.Name)
	if e.CircleType == models.CircleInner {
		m.status += ". Your sobriety counter has been reset. " + streak.SobrietyMessage(0) + "."
	}
	m.refresh()
}

func (m Model) deleteBehaviorConfirmation(b models.Behavior) constants.ConfirmationMsg {
	return constants.ConfirmationMsg{
		Message: fmt.Sprintf("Delete %q? Past events will show as %q.", b.Name, constants.UnknownBehaviorLabel),
		Action: func() tea.Cmd {
			m.store.DeleteBehavior(m.ctx, b.ID)
			return func() tea.Msg { return StoreChangedMsg{} }
		},
	}
}

func (m Model) confirm(c constants.ConfirmationMsg) (tea.Model, tea.Cmd) {
	m.confirmation = &c
	m.previousState = m.state
	m.state = constants.StateConfirmDelete
	return m, nil
}

func (m Model) updateConfirmation(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Confirm):
		action := m.confirmation.Action
		m.confirmation = nil
		m.state = m.previousState
		cmd := action()
		m.refresh()
		return m, cmd
	case key.Matches(keyMsg, m.keys.Cancel):
		m.confirmation = nil
		m.state = m.previousState
	}
	return m, nil
}
