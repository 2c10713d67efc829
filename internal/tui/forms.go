package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/circles/internal/models"
	"github.com/julianstephens/circles/internal/suggestions"
)

func newBehaviorForm(f *BehaviorFormModel, existing []models.Behavior) *huh.Form {
	var suggested []string
	for _, c := range models.AllCircles {
		suggested = append(suggested, suggestions.Unused(c, existing)...)
	}

	circleOptions := make([]huh.Option[models.CircleType], 0, len(models.AllCircles))
	for _, c := range models.AllCircles {
		circleOptions = append(circleOptions, huh.NewOption(c.Label(), c))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[models.CircleType]().
				Title("Circle").
				Options(circleOptions...).
				Value(&f.Circle),
			huh.NewInput().
				Title("Name").
				Suggestions(suggested).
				Value(&f.Name).
				Validate(func(s string) error {
					s = strings.TrimSpace(s)
					if s == "" {
						return errors.New("name is required")
					}
					for _, b := range existing {
						if b.CircleType == f.Circle && strings.EqualFold(b.Name, s) {
							return fmt.Errorf("%s circle already has %q", f.Circle, b.Name)
						}
					}
					return nil
				}),
			huh.NewInput().
				Title("Description").
				Placeholder("optional").
				Value(&f.Description),
		),
	)
}

func newNoteForm(f *NoteFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title(fmt.Sprintf("Log %s (%s circle)", f.Behavior.Name, f.Behavior.CircleType)).
				Placeholder("Add a note (optional)").
				CharLimit(500).
				Value(&f.Note),
		),
	)
}
