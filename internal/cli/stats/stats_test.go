package stats

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/circles/internal/cli"
	"github.com/julianstephens/circles/internal/datastore"
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
	return ctx, out
}

func logEvent(t *testing.T, ctx *cli.Context, c models.CircleType, name string) {
	t.Helper()
	b, err := ctx.Store.AddBehavior(context.Background(), models.NewBehavior{CircleType: c, Name: name})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ctx.Store.AddEvent(context.Background(), models.NewEvent{BehaviorID: b.ID}); err != nil {
		t.Fatal(err)
	}
}

func TestToday(t *testing.T) {
	ctx, out := newTestContext(t)
	logEvent(t, ctx, models.CircleOuter, "Meeting")

	if err := (&TodayCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Days since inner circle: 0") {
		t.Errorf("output:\n%s", out.String())
	}
	if strings.Contains(out.String(), "Sobriety") {
		t.Errorf("sobriety shown without a start date:\n%s", out.String())
	}

	ctx.Store.UpdatePreferences(context.Background(),
		datastore.ShowDaysSinceInner(false),
		datastore.SobrietyStartDate(time.Now().UTC().AddDate(0, 0, -45)),
	)
	out.Reset()
	if err := (&TodayCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out.String(), "Days since inner") {
		t.Errorf("days since inner shown while disabled:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "(45 days)") || !strings.Contains(out.String(), "Momentum is growing") {
		t.Errorf("sobriety output:\n%s", out.String())
	}
}

func TestStats(t *testing.T) {
	ctx, out := newTestContext(t)
	logEvent(t, ctx, models.CircleInner, "Drinking")
	logEvent(t, ctx, models.CircleMiddle, "Isolating")

	if err := (&StatsCmd{Days: []int{7, 30}}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Last 7 days (2 events)", "Last 30 days (2 events)"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}

	if err := (&StatsCmd{Days: []int{0}}).Run(ctx); err == nil {
		t.Error("zero-day window accepted")
	}
}
