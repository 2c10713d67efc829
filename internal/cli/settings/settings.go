package settings

import (
	"fmt"
	"strings"

	"github.com/julianstephens/circles/internal/cli"
	"github.com/julianstephens/circles/internal/datastore"
	"github.com/julianstephens/circles/internal/models"
	"github.com/julianstephens/circles/internal/utils"
)

type PrefsCmd struct {
	Show PrefsShowCmd `cmd:"" help:"Show preferences." default:"1"`
	Set  PrefsSetCmd  `cmd:"" help:"Change preferences."`
}

type PrefsShowCmd struct{}

func (c *PrefsShowCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	p := ctx.Store.GetPreferences()

	start := "not set"
	if p.SobrietyStartDate != nil {
		start = utils.FormatDate(*p.SobrietyStartDate, ctx.Location) + " " + utils.FormatClock(*p.SobrietyStartDate, ctx.Location)
	}
	ctx.Printf("show-days-since-inner: %t\n", p.ShowDaysSinceInner)
	ctx.Printf("onboarded:             %t\n", p.HasCompletedOnboarding)
	ctx.Printf("sobriety-start:        %s\n", start)
	return nil
}

type PrefsSetCmd struct {
	ShowDaysSinceInner *bool  `help:"Show the days-since-inner counter."`
	Onboarded          *bool  `help:"Mark onboarding as complete or incomplete."`
	SobrietyStart      string `help:"Sobriety start date (YYYY-MM-DD)."`
	ClearSobriety      bool   `help:"Clear the sobriety start date."`
}

// Updates converts the flags into store updates.
func (c *PrefsSetCmd) Updates(ctx *cli.Context) ([]datastore.PreferenceUpdate, error) {
	if c.SobrietyStart != "" && c.ClearSobriety {
		return nil, fmt.Errorf("--sobriety-start and --clear-sobriety cannot be combined")
	}

	var updates []datastore.PreferenceUpdate
	if c.ShowDaysSinceInner != nil {
		updates = append(updates, datastore.ShowDaysSinceInner(*c.ShowDaysSinceInner))
	}
	if c.Onboarded != nil {
		updates = append(updates, datastore.CompleteOnboarding(*c.Onboarded))
	}
	if c.SobrietyStart != "" {
		start, err := utils.ParseDateInLocation(c.SobrietyStart, ctx.Location)
		if err != nil {
			return nil, err
		}
		updates = append(updates, datastore.SobrietyStartDate(start))
	}
	if c.ClearSobriety {
		updates = append(updates, datastore.ClearSobrietyStartDate())
	}
	return updates, nil
}

func (c *PrefsSetCmd) Run(ctx *cli.Context) error {
	updates, err := c.Updates(ctx)
	if err != nil {
		return err
	}
	if len(updates) == 0 {
		return fmt.Errorf("nothing to change, see 'circles prefs set --help'")
	}
	if err := ctx.Load(); err != nil {
		return err
	}

	ctx.Store.UpdatePreferences(ctx.Ctx, updates...)
	if err := ctx.Flush(); err != nil {
		return err
	}
	return (&PrefsShowCmd{}).Run(ctx)
}

// OnboardCmd adds the first behaviors and completes onboarding.
type OnboardCmd struct {
	Inner  []string `help:"Inner circle behaviors." sep:","`
	Middle []string `help:"Middle circle behaviors." sep:","`
	Outer  []string `help:"Outer circle behaviors." sep:","`
}

func (c *OnboardCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	wanted := map[models.CircleType][]string{
		models.CircleInner:  c.Inner,
		models.CircleMiddle: c.Middle,
		models.CircleOuter:  c.Outer,
	}

	var toAdd []models.NewBehavior
	for _, circle := range models.AllCircles {
		for _, name := range wanted[circle] {
			if name = strings.TrimSpace(name); name != "" {
				toAdd = append(toAdd, models.NewBehavior{CircleType: circle, Name: name})
			}
		}
	}

	hasInner := len(ctx.Store.GetBehaviors(models.CircleInner)) > 0
	for _, nb := range toAdd {
		if nb.CircleType == models.CircleInner {
			hasInner = true
		}
	}
	if !hasInner {
		return fmt.Errorf("add at least one inner circle behavior (--inner) to finish onboarding")
	}

	for _, nb := range toAdd {
		b, err := ctx.Store.AddBehavior(ctx.Ctx, nb)
		if err != nil {
			return err
		}
		ctx.Printf("Added %s behavior: %s\n", b.CircleType, b.Name)
	}
	ctx.Store.UpdatePreferences(ctx.Ctx, datastore.CompleteOnboarding(true))
	if err := ctx.Flush(); err != nil {
		return err
	}

	ctx.Println("Onboarding complete. Log events with 'circles log <behavior>'.")
	ctx.Println("Check your progress with 'circles today' and 'circles stats'.")
	return nil
}
