package tui

import (
	"strings"
	"testing"

	"github.com/theirongolddev/futureline/internal/model"
	"github.com/theirongolddev/futureline/internal/tui/components"
)

func TestTabAtXMatchesTabWidths(t *testing.T) {
	for active := range components.Tabs {
		a := App{activeTab: active}
		pos := 0

		for i, tab := range components.Tabs {
			w := components.TabVisualWidth(tab, i == active)
			x := pos + w/2 // midpoint inside this tab
			if got := a.tabAtX(x); got != i {
				t.Fatalf("active=%d x=%d -> tab=%d, want %d", active, x, got, i)
			}
			pos += w
			if i < len(components.Tabs)-1 {
				pos++ // separator
			}
		}
	}
}

func TestRecomputeClampsCursor(t *testing.T) {
	plan := model.DemoPlan()
	a := App{plan: plan}
	a.timeState.cursor = 9999
	a.journState.cursor = 9999
	a.recompute()

	if len(a.years) != plan.Horizon+1 {
		t.Fatalf("years = %d, want %d", len(a.years), plan.Horizon+1)
	}
	if a.timeState.cursor != len(a.years)-1 {
		t.Errorf("timeline cursor = %d, want %d", a.timeState.cursor, len(a.years)-1)
	}
	if a.journState.cursor != len(a.years)-1 {
		t.Errorf("journal cursor = %d, want %d", a.journState.cursor, len(a.years)-1)
	}
}

func TestRecomputeWithoutPlan(t *testing.T) {
	a := App{}
	a.recompute()
	if len(a.years) != 0 {
		t.Fatalf("years = %d, want 0", len(a.years))
	}
	if a.timeState.cursor != 0 {
		t.Errorf("cursor = %d, want 0", a.timeState.cursor)
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("the quick brown fox jumps over the lazy dog", 15)
	for _, l := range lines {
		if len(l) > 15 {
			t.Errorf("line %q exceeds limit", l)
		}
	}
	if joined := strings.Join(lines, " "); joined != "the quick brown fox jumps over the lazy dog" {
		t.Errorf("wrapped text lost content: %q", joined)
	}
}

func TestTruncStr(t *testing.T) {
	if got := truncStr("hello", 10); got != "hello" {
		t.Errorf("truncStr short = %q", got)
	}
	if got := truncStr("hello world", 8); got != "hello w…" {
		t.Errorf("truncStr long = %q", got)
	}
	if got := truncStr("hello", 0); got != "" {
		t.Errorf("truncStr zero = %q", got)
	}
}
