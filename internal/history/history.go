// Package history shapes the event log for display: circle filters, grouping
// by calendar day and behavior name resolution.
package history

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/circles/internal/constants"
	"github.com/julianstephens/circles/internal/models"
	"github.com/julianstephens/circles/internal/utils"
)

// Filter selects events by circle. FilterAll keeps every event.
type Filter string

const FilterAll Filter = "all"

// Filters lists the filters in display order.
var Filters = []Filter{FilterAll, Filter(models.CircleInner), Filter(models.CircleMiddle), Filter(models.CircleOuter)}

// ParseFilter accepts "all", an empty string, or a circle name.
func ParseFilter(s string) (Filter, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == string(FilterAll) {
		return FilterAll, nil
	}
	c, err := models.ParseCircleType(s)
	if err != nil {
		return "", fmt.Errorf("invalid filter %q (expected all, inner, middle or outer)", s)
	}
	return Filter(c), nil
}

func (f Filter) Label() string {
	if f == FilterAll || f == "" {
		return "All"
	}
	return models.CircleType(f).Label()
}

// Next cycles to the following filter in display order.
func (f Filter) Next() Filter {
	for i, candidate := range Filters {
		if candidate == f {
			return Filters[(i+1)%len(Filters)]
		}
	}
	return FilterAll
}

// Apply returns the events matching f, preserving order.
func (f Filter) Apply(events []models.Event) []models.Event {
	if f == FilterAll || f == "" {
		return events
	}
	out := make([]models.Event, 0, len(events))
	for _, e := range events {
		if e.CircleType == models.CircleType(f) {
			out = append(out, e)
		}
	}
	return out
}

// Day is the events of one calendar day.
type Day struct {
	// Date is local midnight.
	Date   time.Time
	Events []models.Event
}

// GroupByDay buckets events by their calendar day in loc. Days are returned
// newest first; events keep their relative order within a day.
func GroupByDay(events []models.Event, loc *time.Location) []Day {
	index := map[time.Time]int{}
	var days []Day
	for _, e := range events {
		date := utils.StartOfDay(e.Timestamp, loc)
		i, ok := index[date]
		if !ok {
			i = len(days)
			index[date] = i
			days = append(days, Day{Date: date})
		}
		days[i].Events = append(days[i].Events, e)
	}
	sort.SliceStable(days, func(i, j int) bool { return days[i].Date.After(days[j].Date) })
	return days
}

// Title names a day relative to now: "Today", "Yesterday" or the date.
func (d Day) Title(now time.Time) string {
	today := utils.StartOfDay(now, d.Date.Location())
	switch {
	case d.Date.Equal(today):
		return "Today"
	case d.Date.Equal(today.AddDate(0, 0, -1)):
		return "Yesterday"
	}
	return d.Date.Format("Mon, Jan 2 2006")
}

// Names maps behavior ids to names.
type Names map[string]string

func NewNames(behaviors []models.Behavior) Names {
	names := make(Names, len(behaviors))
	for _, b := range behaviors {
		names[b.ID] = b.Name
	}
	return names
}

// Label returns the behavior name for id, or a placeholder when the behavior
// has been deleted.
func (n Names) Label(id string) string {
	if name, ok := n[id]; ok {
		return name
	}
	return constants.UnknownBehaviorLabel
}
