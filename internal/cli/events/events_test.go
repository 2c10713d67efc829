package events

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/circles/internal/cli"
	"github.com/julianstephens/circles/internal/kv"
	"github.com/julianstephens/circles/internal/models"
)

func newTestContext(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	ctx := cli.NewContext(context.Background(), kv.NewMemoryStore(), time.UTC)
	out := &bytes.Buffer{}
	ctx.Out = out
	if err := ctx.Load(); err != nil {
		t.Fatal(err)
	}
	for _, nb := range []models.NewBehavior{
		{CircleType: models.CircleInner, Name: "Drinking"},
		{CircleType: models.CircleOuter, Name: "Meeting"},
	} {
		if _, err := ctx.Store.AddBehavior(context.Background(), nb); err != nil {
			t.Fatal(err)
		}
	}
	return ctx, out
}

func TestLog(t *testing.T) {
	ctx, out := newTestContext(t)

	if err := (&LogCmd{Behavior: "meeting", Note: "good share"}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "Logged outer: Meeting") || strings.Contains(out.String(), "reset") {
		t.Errorf("outer log output = %q", out.String())
	}
	if ctx.Store.GetPreferences().SobrietyStartDate != nil {
		t.Error("outer event set the sobriety date")
	}

	out.Reset()
	if err := (&LogCmd{Behavior: "Drinking"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "sobriety counter has been reset") {
		t.Errorf("inner log output = %q", out.String())
	}
	if ctx.Store.GetPreferences().SobrietyStartDate == nil {
		t.Error("inner event did not set the sobriety date")
	}

	if err := (&LogCmd{Behavior: "Gambling"}).Run(ctx); err == nil {
		t.Error("logging an unknown behavior succeeded")
	}
}

func TestEventsList(t *testing.T) {
	ctx, out := newTestContext(t)

	if err := (&EventsListCmd{Circle: "all"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No events yet") {
		t.Errorf("empty output = %q", out.String())
	}

	for _, ref := range []string{"Drinking", "Meeting", "Meeting"} {
		if err := (&LogCmd{Behavior: ref, Note: "note-" + ref}).Run(ctx); err != nil {
			t.Fatal(err)
		}
	}

	out.Reset()
	if err := (&EventsListCmd{Circle: "inner"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "note-Drinking") || strings.Contains(out.String(), "note-Meeting") {
		t.Errorf("inner filter output:\n%s", out.String())
	}

	out.Reset()
	if err := (&EventsListCmd{Circle: "all", Limit: 1}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "2 more events not shown") {
		t.Errorf("limit output:\n%s", out.String())
	}

	if err := (&EventsListCmd{Circle: "sideways"}).Run(ctx); err == nil {
		t.Error("invalid filter accepted")
	}
	if err := (&EventsListCmd{Circle: "all", Limit: -1}).Run(ctx); err == nil {
		t.Error("negative limit accepted")
	}
}

func TestEventsListKeepsDeletedBehaviors(t *testing.T) {
	ctx, out := newTestContext(t)
	if err := (&LogCmd{Behavior: "Drinking"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	b, _ := cli.FindBehavior(ctx.Store, "Drinking")
	ctx.Store.DeleteBehavior(context.Background(), b.ID)

	out.Reset()
	if err := (&EventsListCmd{Circle: "all"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Unknown behavior") {
		t.Errorf("output:\n%s", out.String())
	}
}

func TestEventsDelete(t *testing.T) {
	ctx, _ := newTestContext(t)
	if err := (&LogCmd{Behavior: "Meeting"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	id := ctx.Store.GetEvents()[0].ID

	if err := (&EventsDeleteCmd{ID: id}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if n := len(ctx.Store.GetEvents()); n != 0 {
		t.Errorf("events after delete = %d", n)
	}
	if err := (&EventsDeleteCmd{ID: id}).Run(ctx); err == nil {
		t.Error("deleting a missing event succeeded")
	}
}
