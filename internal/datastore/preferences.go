package datastore

import (
	"context"
	"time"

	"github.com/julianstephens/circles/internal/constants"
	"github.com/julianstephens/circles/internal/models"
)

// PreferenceUpdate changes one preference field.
type PreferenceUpdate func(*models.Preferences)

func ShowDaysSinceInner(show bool) PreferenceUpdate {
	return func(p *models.Preferences) { p.ShowDaysSinceInner = show }
}

func CompleteOnboarding(done bool) PreferenceUpdate {
	return func(p *models.Preferences) { p.HasCompletedOnboarding = done }
}

// SobrietyStartDate sets the streak start. It is stored in UTC at
// millisecond precision like every other instant.
func SobrietyStartDate(t time.Time) PreferenceUpdate {
	t = t.UTC().Truncate(time.Millisecond)
	return func(p *models.Preferences) { p.SobrietyStartDate = &t }
}

func ClearSobrietyStartDate() PreferenceUpdate {
	return func(p *models.Preferences) { p.SobrietyStartDate = nil }
}

// GetPreferences returns a copy of the current preferences.
func (s *Store) GetPreferences() models.Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs.Clone()
}

// UpdatePreferences applies the updates in order, persists and notifies.
// Fields not named by an update keep their values.
func (s *Store) UpdatePreferences(ctx context.Context, updates ...PreferenceUpdate) models.Preferences {
	s.mu.Lock()
	if len(updates) == 0 {
		p := s.prefs.Clone()
		s.mu.Unlock()
		return p
	}

	next := s.prefs.Clone()
	for _, update := range updates {
		update(&next)
	}
	s.prefs = next
	s.commitLocked(ctx, constants.StorageKeyPreferences)
	p := s.prefs.Clone()
	s.mu.Unlock()

	s.notify()
	return p
}
