package datastore

import (
	"context"
	"testing"
	"time"

	"github.com/julianstephens/circles/internal/kv"
)

func TestUpdatePreferences(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, kv.NewMemoryStore(), &clock{t: time.Now()})

	start := time.Date(2024, 4, 1, 9, 0, 0, 999_999, time.UTC)
	got := s.UpdatePreferences(ctx, CompleteOnboarding(true), SobrietyStartDate(start))
	if !got.HasCompletedOnboarding || !got.ShowDaysSinceInner {
		t.Errorf("UpdatePreferences() = %+v, untouched fields should keep their values", got)
	}
	if got.SobrietyStartDate == nil || !got.SobrietyStartDate.Equal(start.Truncate(time.Millisecond)) {
		t.Errorf("SobrietyStartDate = %v", got.SobrietyStartDate)
	}

	got = s.UpdatePreferences(ctx, ShowDaysSinceInner(false), ClearSobrietyStartDate())
	if got.ShowDaysSinceInner || got.SobrietyStartDate != nil || !got.HasCompletedOnboarding {
		t.Errorf("UpdatePreferences() = %+v", got)
	}

	before := s.GetVersion()
	s.UpdatePreferences(ctx)
	if s.GetVersion() != before {
		t.Error("an empty update should not bump the version")
	}
}

func TestGetPreferencesReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, kv.NewMemoryStore(), &clock{t: time.Now()})
	start := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	s.UpdatePreferences(ctx, SobrietyStartDate(start))

	p := s.GetPreferences()
	p.ShowDaysSinceInner = false
	*p.SobrietyStartDate = start.AddDate(1, 0, 0)

	again := s.GetPreferences()
	if !again.ShowDaysSinceInner {
		t.Error("mutating the copy changed ShowDaysSinceInner")
	}
	if !again.SobrietyStartDate.Equal(start) {
		t.Errorf("mutating the copy changed SobrietyStartDate to %v", again.SobrietyStartDate)
	}
	if clone := again.Clone(); clone.SobrietyStartDate == again.SobrietyStartDate {
		t.Error("Clone() shares the sobriety date pointer")
	}
}
