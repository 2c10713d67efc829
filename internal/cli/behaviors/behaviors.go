package behaviors

import (
	"fmt"
	"strings"

	"github.com/julianstephens/circles/internal/cli"
	"github.com/julianstephens/circles/internal/models"
	"github.com/julianstephens/circles/internal/suggestions"
)

type BehaviorCmd struct {
	Add     BehaviorAddCmd     `cmd:"" help:"Add a behavior to a circle."`
	List    BehaviorListCmd    `cmd:"" help:"List behaviors." default:"1"`
	Delete  BehaviorDeleteCmd  `cmd:"" help:"Delete a behavior. Logged events are kept."`
	Suggest BehaviorSuggestCmd `cmd:"" help:"Show suggested behaviors for a circle."`
}

type BehaviorAddCmd struct {
	Circle      string `arg:"" help:"Circle (inner|middle|outer)."`
	Name        string `arg:"" help:"Behavior name."`
	Description string `help:"Optional description."`
}

func (c *BehaviorAddCmd) Run(ctx *cli.Context) error {
	circle, err := models.ParseCircleType(c.Circle)
	if err != nil {
		return err
	}
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return fmt.Errorf("behavior name cannot be empty")
	}
	if err := ctx.Load(); err != nil {
		return err
	}

	for _, existing := range ctx.Store.GetBehaviors(circle) {
		if strings.EqualFold(existing.Name, name) {
			return fmt.Errorf("%s circle already has a behavior named %q", circle, existing.Name)
		}
	}

	b, err := ctx.Store.AddBehavior(ctx.Ctx, models.NewBehavior{
		CircleType:  circle,
		Name:        name,
		Description: c.Description,
	})
	if err != nil {
		return err
	}
	if err := ctx.Flush(); err != nil {
		return err
	}

	ctx.Printf("Added %s behavior: %s (%s)\n", circle, b.Name, b.ID)
	return nil
}

type BehaviorListCmd struct {
	Circle string `help:"Only list this circle (inner|middle|outer)."`
}

func (c *BehaviorListCmd) Run(ctx *cli.Context) error {
	circles := models.AllCircles
	if c.Circle != "" {
		circle, err := models.ParseCircleType(c.Circle)
		if err != nil {
			return err
		}
		circles = []models.CircleType{circle}
	}
	if err := ctx.Load(); err != nil {
		return err
	}

	total := 0
	for _, circle := range circles {
		behaviors := ctx.Store.GetBehaviors(circle)
		total += len(behaviors)
		for _, b := range behaviors {
			line := fmt.Sprintf("%s  %s  %s", cli.CircleBadge(circle), b.ID, b.Name)
			if b.Description != "" {
				line += " - " + b.Description
			}
			ctx.Println(line)
		}
	}
	if total == 0 {
		ctx.Println("No behaviors found. Add one with 'circles behavior add <circle> <name>'.")
	}
	return nil
}

type BehaviorDeleteCmd struct {
	Behavior string `arg:"" help:"Behavior id or name."`
}

func (c *BehaviorDeleteCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	b, err := cli.FindBehavior(ctx.Store, c.Behavior)
	if err != nil {
		return err
	}

	ctx.Store.DeleteBehavior(ctx.Ctx, b.ID)
	if err := ctx.Flush(); err != nil {
		return err
	}
	ctx.Printf("Deleted behavior: %s\n", b.Name)
	return nil
}

type BehaviorSuggestCmd struct {
	Circle string `arg:"" help:"Circle (inner|middle|outer)."`
}

func (c *BehaviorSuggestCmd) Run(ctx *cli.Context) error {
	circle, err := models.ParseCircleType(c.Circle)
	if err != nil {
		return err
	}
	if err := ctx.Load(); err != nil {
		return err
	}

	names := suggestions.Unused(circle, ctx.Store.GetBehaviors(circle))
	if len(names) == 0 {
		ctx.Printf("Every suggestion for the %s circle is already tracked.\n", circle)
		return nil
	}
	ctx.Printf("Suggested %s circle behaviors:\n", circle)
	for _, name := range names {
		ctx.Printf("  %s\n", name)
	}
	return nil
}
