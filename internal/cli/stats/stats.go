package stats

import (
	"fmt"
	"time"

	"github.com/julianstephens/circles/internal/cli"
	"github.com/julianstephens/circles/internal/constants"
	"github.com/julianstephens/circles/internal/streak"
)

// TodayCmd prints the home screen summary.
type TodayCmd struct{}

func (c *TodayCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	now := time.Now()
	prefs := ctx.Store.GetPreferences()

	ctx.Println("Today")
	ctx.Println("  " + cli.FormatCounts(ctx.Store.GetTodayEventCounts()))

	if prefs.ShowDaysSinceInner {
		days := 0
		if last, ok := ctx.Store.GetLastInnerEvent(); ok {
			days = streak.DaysSince(last.Timestamp, now)
		}
		ctx.Printf("\nDays since inner circle: %d\n  %s\n", days, streak.InnerStreakMessage(days))
	}

	if prefs.SobrietyStartDate != nil {
		elapsed := streak.Since(prefs.SobrietyStartDate, now.In(ctx.Location))
		days := streak.DaysSince(*prefs.SobrietyStartDate, now)
		ctx.Printf("\nSobriety: %s (%d days)\n  %s\n", elapsed, days, streak.SobrietyMessage(days))
	}
	return nil
}

// StatsCmd prints rolling-window counts.
type StatsCmd struct {
	Days []int `help:"Window sizes in days." default:"7,30"`
}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	days := c.Days
	if len(days) == 0 {
		days = []int{constants.ShortPeriodDays, constants.LongPeriodDays}
	}

	for _, d := range days {
		if d < 1 {
			return fmt.Errorf("window must be at least one day, got %d", d)
		}
		counts := ctx.Store.GetEventCountsForPeriod(d)
		ctx.Printf("Last %d days (%d events)\n  %s\n", d, counts.Total(), cli.FormatCounts(counts))
	}
	return nil
}
