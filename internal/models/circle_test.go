package models

import (
	"testing"
	"time"
)

func TestParseCircleType(t *testing.T) {
	tests := []struct {
		in      string
		want    CircleType
		wantErr bool
	}{
		{"inner", CircleInner, false},
		{" Middle ", CircleMiddle, false},
		{"OUTER", CircleOuter, false},
		{"", "", true},
		{"outermost", "", true},
	}
	for _, tt := range tests {
		got, err := ParseCircleType(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseCircleType(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseCircleType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCircleLabel(t *testing.T) {
	if got := CircleMiddle.Label(); got != "Middle" {
		t.Errorf("Label() = %q", got)
	}
	if got := CircleType("").Label(); got != "" {
		t.Errorf("empty Label() = %q", got)
	}
}

func TestCircleCounts(t *testing.T) {
	var c CircleCounts
	for _, ct := range []CircleType{CircleInner, CircleOuter, CircleOuter, "bogus"} {
		c.Add(ct)
	}
	if c.Get(CircleInner) != 1 || c.Get(CircleMiddle) != 0 || c.Get(CircleOuter) != 2 {
		t.Errorf("counts = %+v", c)
	}
	if c.Total() != 3 {
		t.Errorf("Total() = %d, want 3", c.Total())
	}
}

func TestPreferencesClone(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p := DefaultPreferences()
	p.SobrietyStartDate = &start

	c := p.Clone()
	*c.SobrietyStartDate = start.AddDate(1, 0, 0)
	if !p.SobrietyStartDate.Equal(start) {
		t.Error("Clone shares the sobriety start date")
	}
	if !DefaultPreferences().ShowDaysSinceInner || DefaultPreferences().HasCompletedOnboarding {
		t.Errorf("defaults = %+v", DefaultPreferences())
	}
}
