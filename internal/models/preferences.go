package models

import (
	"time"

	"github.com/julianstephens/circles/internal/constants"
)

// Preferences is the singleton user preferences record.
type Preferences struct {
	ShowDaysSinceInner     bool
	HasCompletedOnboarding bool
	// SobrietyStartDate is nil until the first inner-circle event or an explicit start date.
	SobrietyStartDate *time.Time
}

// DefaultPreferences returns the preferences of a fresh install.
func DefaultPreferences() Preferences {
	return Preferences{
		ShowDaysSinceInner:     constants.DefaultShowDaysSinceInner,
		HasCompletedOnboarding: constants.DefaultHasCompletedOnboarding,
	}
}

// Clone returns a deep copy of p.
func (p Preferences) Clone() Preferences {
	out := p
	if p.SobrietyStartDate != nil {
		t := *p.SobrietyStartDate
		out.SobrietyStartDate = &t
	}
	return out
}
