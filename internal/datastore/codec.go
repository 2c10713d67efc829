package datastore

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/julianstephens/circles/internal/constants"
	"github.com/julianstephens/circles/internal/models"
)

// Wire records. Instants travel as ISO-8601 strings so any client of the
// blob store can read them.

type behaviorRecord struct {
	ID          string            `json:"id"`
	CircleType  models.CircleType `json:"circleType"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
}

type eventRecord struct {
	ID         string            `json:"id"`
	BehaviorID string            `json:"behaviorId"`
	CircleType models.CircleType `json:"circleType"`
	Timestamp  string            `json:"timestamp"`
	Note       string            `json:"note,omitempty"`
}

type preferencesRecord struct {
	ShowDaysSinceInner     *bool   `json:"showDaysSinceInner,omitempty"`
	HasCompletedOnboarding *bool   `json:"hasCompletedOnboarding,omitempty"`
	SobrietyStartDate      *string `json:"sobrietyStartDate"`
}

// FormatTimestamp renders t as UTC ISO-8601 with millisecond precision.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(constants.TimestampFormat)
}

// ParseTimestamp accepts any RFC 3339 instant and returns it in UTC.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func encodeBehaviors(behaviors []models.Behavior) (string, error) {
	records := make([]behaviorRecord, len(behaviors))
	for i, b := range behaviors {
		records[i] = behaviorRecord(b)
	}
	data, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("failed to encode behaviors: %w", err)
	}
	return string(data), nil
}

func decodeBehaviors(data string) ([]models.Behavior, error) {
	var records []behaviorRecord
	if err := json.Unmarshal([]byte(data), &records); err != nil {
		return nil, fmt.Errorf("failed to decode behaviors: %w", err)
	}
	behaviors := make([]models.Behavior, len(records))
	for i, r := range records {
		behaviors[i] = models.Behavior(r)
	}
	return behaviors, nil
}

func encodeEvents(events []models.Event) (string, error) {
	records := make([]eventRecord, len(events))
	for i, e := range events {
		records[i] = eventRecord{
			ID:         e.ID,
			BehaviorID: e.BehaviorID,
			CircleType: e.CircleType,
			Timestamp:  FormatTimestamp(e.Timestamp),
			Note:       e.Note,
		}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("failed to encode events: %w", err)
	}
	return string(data), nil
}

func decodeEvents(data string) ([]models.Event, error) {
	var records []eventRecord
	if err := json.Unmarshal([]byte(data), &records); err != nil {
		return nil, fmt.Errorf("failed to decode events: %w", err)
	}
	events := make([]models.Event, len(records))
	for i, r := range records {
		ts, err := ParseTimestamp(r.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("failed to parse timestamp of event %s: %w", r.ID, err)
		}
		events[i] = models.Event{
			ID:         r.ID,
			BehaviorID: r.BehaviorID,
			CircleType: r.CircleType,
			Timestamp:  ts,
			Note:       r.Note,
		}
	}
	return events, nil
}

func encodePreferences(p models.Preferences) (string, error) {
	rec := preferencesRecord{
		ShowDaysSinceInner:     &p.ShowDaysSinceInner,
		HasCompletedOnboarding: &p.HasCompletedOnboarding,
	}
	if p.SobrietyStartDate != nil {
		s := FormatTimestamp(*p.SobrietyStartDate)
		rec.SobrietyStartDate = &s
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("failed to encode preferences: %w", err)
	}
	return string(data), nil
}

// decodePreferences overlays the stored fields on the defaults, so records
// written by older versions without a field keep its default.
func decodePreferences(data string) (models.Preferences, error) {
	var rec preferencesRecord
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return models.Preferences{}, fmt.Errorf("failed to decode preferences: %w", err)
	}

	p := models.DefaultPreferences()
	if rec.ShowDaysSinceInner != nil {
		p.ShowDaysSinceInner = *rec.ShowDaysSinceInner
	}
	if rec.HasCompletedOnboarding != nil {
		p.HasCompletedOnboarding = *rec.HasCompletedOnboarding
	}
	if rec.SobrietyStartDate != nil && *rec.SobrietyStartDate != "" {
		t, err := ParseTimestamp(*rec.SobrietyStartDate)
		if err != nil {
			return models.Preferences{}, fmt.Errorf("failed to parse sobrietyStartDate: %w", err)
		}
		p.SobrietyStartDate = &t
	}
	return p, nil
}
