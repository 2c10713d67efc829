package datastore

import (
	"time"

	"github.com/julianstephens/circles/internal/models"
	"github.com/julianstephens/circles/internal/utils"
)

// GetLastInnerEvent returns the most recent inner-circle event.
func (s *Store) GetLastInnerEvent() (models.Event, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var last models.Event
	found := false
	for _, e := range s.events {
		if e.CircleType != models.CircleInner {
			continue
		}
		if !found || e.Timestamp.After(last.Timestamp) {
			last = e
			found = true
		}
	}
	return last, found
}

// GetTodayEventCounts counts events at or after midnight today in the
// store's location.
func (s *Store) GetTodayEventCounts() models.CircleCounts {
	return s.countSince(utils.StartOfDay(s.now(), s.loc))
}

// GetEventCountsForPeriod counts events in the last days days, measured back
// from now by calendar days.
func (s *Store) GetEventCountsForPeriod(days int) models.CircleCounts {
	now := s.now().In(s.loc)
	return s.countSince(now.AddDate(0, 0, -days))
}

func (s *Store) countSince(cutoff time.Time) models.CircleCounts {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var counts models.CircleCounts
	for _, e := range s.events {
		if !e.Timestamp.Before(cutoff) {
			counts.Add(e.CircleType)
		}
	}
	return counts
}
