package behaviors

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
	return ctx, out
}

func TestBehaviorAdd(t *testing.T) {
	ctx, out := newTestContext(t)

	if err := (&BehaviorAddCmd{Circle: "Inner", Name: "  Drinking ", Description: "any alcohol"}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	got := ctx.Store.GetBehaviors(models.CircleInner)
	if len(got) != 1 || got[0].Name != "Drinking" || got[0].Description != "any alcohol" {
		t.Fatalf("behaviors = %+v", got)
	}
	if !strings.Contains(out.String(), "Added inner behavior: Drinking") {
		t.Errorf("output = %q", out.String())
	}

	tests := []struct {
		name string
		cmd  BehaviorAddCmd
		want string
	}{
		{"duplicate", BehaviorAddCmd{Circle: "inner", Name: "drinking"}, "already has"},
		{"bad circle", BehaviorAddCmd{Circle: "outermost", Name: "x"}, "invalid circle"},
		{"empty name", BehaviorAddCmd{Circle: "outer", Name: "   "}, "cannot be empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cmd.Run(ctx)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Run() error = %v, want %q", err, tt.want)
			}
		})
	}

	if err := (&BehaviorAddCmd{Circle: "middle", Name: "Drinking"}).Run(ctx); err != nil {
		t.Errorf("same name in another circle: %v", err)
	}
}

func TestBehaviorListAndDelete(t *testing.T) {
	ctx, out := newTestContext(t)

	if err := (&BehaviorListCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No behaviors found") {
		t.Errorf("empty list output = %q", out.String())
	}

	for _, add := range []BehaviorAddCmd{
		{Circle: "outer", Name: "Meeting"},
		{Circle: "inner", Name: "Drinking"},
	} {
		if err := add.Run(ctx); err != nil {
			t.Fatal(err)
		}
	}

	out.Reset()
	if err := (&BehaviorListCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 || !strings.Contains(lines[0], "Drinking") || !strings.Contains(lines[1], "Meeting") {
		t.Errorf("list should be ordered inner to outer:\n%s", out.String())
	}

	out.Reset()
	if err := (&BehaviorListCmd{Circle: "outer"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out.String(), "Drinking") {
		t.Errorf("circle filter ignored:\n%s", out.String())
	}

	if err := (&BehaviorDeleteCmd{Behavior: "meeting"}).Run(ctx); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if n := len(ctx.Store.GetBehaviors(models.CircleOuter)); n != 0 {
		t.Errorf("outer behaviors after delete = %d", n)
	}
	if err := (&BehaviorDeleteCmd{Behavior: "meeting"}).Run(ctx); err == nil {
		t.Error("deleting an unknown behavior succeeded")
	}
}

func TestBehaviorSuggest(t *testing.T) {
	ctx, out := newTestContext(t)
	if err := (&BehaviorSuggestCmd{Circle: "outer"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Suggested outer circle behaviors:") {
		t.Errorf("output = %q", out.String())
	}
	if err := (&BehaviorSuggestCmd{Circle: "nope"}).Run(ctx); err == nil {
		t.Error("invalid circle accepted")
	}
}
