// Package suggestions offers common behavior names for each circle during
// onboarding.
package suggestions

import (
	"strings"

	"github.com/julianstephens/circles/internal/models"
)

var byCircle = map[models.CircleType][]string{
	models.CircleInner: {
		"Using substances",
		"Acting out sexually",
		"Gambling",
		"Lying",
		"Stealing",
		"Physical violence",
	},
	models.CircleMiddle: {
		"Excessive social media",
		"Spending too much time alone",
		"Skipping meals",
		"Staying up too late",
		"Avoiding responsibilities",
		"Risky environments",
	},
	models.CircleOuter: {
		"Exercise",
		"Meditation",
		"Calling a friend",
		"Attending meetings",
		"Reading",
		"Journaling",
		"Healthy eating",
		"Getting enough sleep",
	},
}

// For returns the suggested names for circle. The slice is a copy.
func For(circle models.CircleType) []string {
	return append([]string(nil), byCircle[circle]...)
}

// Unused returns the suggestions for circle that do not match an existing
// behavior name, ignoring case.
func Unused(circle models.CircleType, existing []models.Behavior) []string {
	taken := make(map[string]bool, len(existing))
	for _, b := range existing {
		taken[strings.ToLower(b.Name)] = true
	}
	var out []string
	for _, name := range byCircle[circle] {
		if !taken[strings.ToLower(name)] {
			out = append(out, name)
		}
	}
	return out
}
