package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/julianstephens/circles/internal/constants"
	"github.com/julianstephens/circles/internal/models"
	"github.com/julianstephens/circles/internal/utils"
)

var circleColors = map[models.CircleType]lipgloss.Color{
	models.CircleInner:  lipgloss.Color(constants.ColorInner),
	models.CircleMiddle: lipgloss.Color(constants.ColorMiddle),
	models.CircleOuter:  lipgloss.Color(constants.ColorOuter),
}

// CircleBadge renders a fixed-width, colored circle label.
func CircleBadge(c models.CircleType) string {
	return lipgloss.NewStyle().Foreground(circleColors[c]).Bold(true).Render(fmt.Sprintf("%-6s", c.Label()))
}

// FormatWhen renders an event time as "2024-05-01 14:03 (3 hours ago)".
func FormatWhen(ts, now time.Time, loc *time.Location) string {
	return fmt.Sprintf("%s %s (%s)", utils.FormatDate(ts, loc), utils.FormatClock(ts, loc), humanize.RelTime(ts, now, "ago", "from now"))
}

// FormatCounts renders per-circle counts on one line.
func FormatCounts(c models.CircleCounts) string {
	return fmt.Sprintf("%s %d   %s %d   %s %d",
		CircleBadge(models.CircleInner), c.Inner,
		CircleBadge(models.CircleMiddle), c.Middle,
		CircleBadge(models.CircleOuter), c.Outer)
}
