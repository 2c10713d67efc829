package datastore

import (
	"context"
	"errors"
	"fmt"

	"github.com/julianstephens/circles/internal/constants"
	"github.com/julianstephens/circles/internal/kv"
	"github.com/julianstephens/circles/internal/models"
)

// Verify reads the persisted state strictly and reports every problem that
// Initialize would silently recover from, plus broken invariants: duplicate
// ids, unknown circles and events whose circle disagrees with their behavior.
// Dangling behavior references are not problems.
func Verify(ctx context.Context, backend kv.Store) error {
	var problems []error
	read := func(key string) (string, bool) {
		value, ok, err := backend.Get(ctx, key)
		if err != nil {
			problems = append(problems, fmt.Errorf("%s: %w", key, err))
			return "", false
		}
		return value, ok
	}

	var behaviors []models.Behavior
	if value, ok := read(constants.StorageKeyBehaviors); ok {
		var err error
		if behaviors, err = decodeBehaviors(value); err != nil {
			problems = append(problems, err)
		}
	}
	byID := make(map[string]models.Behavior, len(behaviors))
	for _, b := range behaviors {
		if _, dup := byID[b.ID]; dup {
			problems = append(problems, fmt.Errorf("duplicate behavior id %s", b.ID))
		}
		if !b.CircleType.Valid() {
			problems = append(problems, fmt.Errorf("behavior %s has unknown circle %q", b.ID, b.CircleType))
		}
		byID[b.ID] = b
	}

	if value, ok := read(constants.StorageKeyEvents); ok {
		events, err := decodeEvents(value)
		if err != nil {
			problems = append(problems, err)
		}
		seen := make(map[string]bool, len(events))
		for _, e := range events {
			if seen[e.ID] {
				problems = append(problems, fmt.Errorf("duplicate event id %s", e.ID))
			}
			seen[e.ID] = true
			if !e.CircleType.Valid() {
				problems = append(problems, fmt.Errorf("event %s has unknown circle %q", e.ID, e.CircleType))
			}
			if b, ok := byID[e.BehaviorID]; ok && b.CircleType != e.CircleType {
				problems = append(problems, fmt.Errorf("event %s is %s but behavior %q is %s", e.ID, e.CircleType, b.Name, b.CircleType))
			}
		}
	}

	if value, ok := read(constants.StorageKeyPreferences); ok {
		if _, err := decodePreferences(value); err != nil {
			problems = append(problems, err)
		}
	}

	return errors.Join(problems...)
}
