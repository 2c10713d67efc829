package events

import (
	"fmt"
	"time"

	"github.com/julianstephens/circles/internal/cli"
	"github.com/julianstephens/circles/internal/history"
	"github.com/julianstephens/circles/internal/models"
	"github.com/julianstephens/circles/internal/streak"
	"github.com/julianstephens/circles/internal/utils"
)

type LogCmd struct {
	Behavior string `arg:"" help:"Behavior id or name."`
	Note     string `help:"Optional note."`
}

func (c *LogCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	b, err := cli.FindBehavior(ctx.Store, c.Behavior)
	if err != nil {
		return err
	}

	e, err := ctx.Store.AddEvent(ctx.Ctx, models.NewEvent{
		BehaviorID: b.ID,
		CircleType: b.CircleType,
		Note:       c.Note,
	})
	if err != nil {
		return err
	}
	if err := ctx.Flush(); err != nil {
		return err
	}

	ctx.Printf("Logged %s: %s at %s\n", b.CircleType, b.Name, utils.FormatClock(e.Timestamp, ctx.Location))
	if b.CircleType == models.CircleInner {
		ctx.Println("Your sobriety counter has been reset. " + streak.SobrietyMessage(0) + ".")
	}
	return nil
}

type EventsCmd struct {
	List   EventsListCmd   `cmd:"" help:"Show event history." default:"1"`
	Delete EventsDeleteCmd `cmd:"" help:"Delete an event."`
}

type EventsListCmd struct {
	Circle string `help:"Only show this circle (all|inner|middle|outer)." default:"all"`
	Limit  int    `help:"Show at most this many events (0 for all)." default:"50"`
}

func (c *EventsListCmd) Run(ctx *cli.Context) error {
	filter, err := history.ParseFilter(c.Circle)
	if err != nil {
		return err
	}
	if c.Limit < 0 {
		return fmt.Errorf("limit cannot be negative")
	}
	if err := ctx.Load(); err != nil {
		return err
	}

	events := filter.Apply(ctx.Store.GetEvents())
	if len(events) == 0 {
		ctx.Println("No events yet. Log one with 'circles log <behavior>'.")
		return nil
	}
	shown := events
	if c.Limit > 0 && len(shown) > c.Limit {
		shown = shown[:c.Limit]
	}

	names := history.NewNames(ctx.Store.GetBehaviors(""))
	now := time.Now()
	for i, day := range history.GroupByDay(shown, ctx.Location) {
		if i > 0 {
			ctx.Println()
		}
		ctx.Println(day.Title(now))
		for _, e := range day.Events {
			line := fmt.Sprintf("  %s  %s  %s", utils.FormatClock(e.Timestamp, ctx.Location), cli.CircleBadge(e.CircleType), names.Label(e.BehaviorID))
			if e.Note != "" {
				line += "  " + e.Note
			}
			ctx.Printf("%s  [%s]\n", line, e.ID)
		}
	}
	if len(shown) < len(events) {
		ctx.Printf("\n%d more events not shown (use --limit 0 to show all)\n", len(events)-len(shown))
	}
	return nil
}

type EventsDeleteCmd struct {
	ID string `arg:"" help:"Event id."`
}

func (c *EventsDeleteCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	found := false
	for _, e := range ctx.Store.GetEvents() {
		if e.ID == c.ID {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("event %q not found", c.ID)
	}

	ctx.Store.DeleteEvent(ctx.Ctx, c.ID)
	if err := ctx.Flush(); err != nil {
		return err
	}
	ctx.Println("Deleted event " + c.ID)
	return nil
}
