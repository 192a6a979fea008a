package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/theirongolddev/futureline/internal/tui/theme"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestSplitWidthsSumToTotal(t *testing.T) {
	for _, tc := range []struct {
		total, n int
	}{
		{100, 4},
		{101, 4},
		{103, 4},
		{80, 3},
		{7, 2},
	} {
		widths := SplitWidths(tc.total, tc.n)
		if len(widths) != tc.n {
			t.Fatalf("SplitWidths(%d, %d) returned %d widths", tc.total, tc.n, len(widths))
		}
		sum := 0
		for _, w := range widths {
			sum += w
		}
		if sum != tc.total {
			t.Errorf("SplitWidths(%d, %d) sums to %d", tc.total, tc.n, sum)
		}
	}

	if got := SplitWidths(100, 0); got != nil {
		t.Errorf("SplitWidths with n=0 = %v, want nil", got)
	}
}

func TestCardRowHeightMatchesTallest(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "Content", 22)
	tallCard := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)

	shortLines := len(strings.Split(shortCard, "\n"))
	tallLines := len(strings.Split(tallCard, "\n"))
	if shortLines >= tallLines {
		t.Fatal("setup: short card should be shorter than tall card")
	}

	joined := CardRow([]string{tallCard, shortCard})
	lines := strings.Split(joined, "\n")

	if len(lines) != tallLines {
		t.Errorf("joined height = %d, want %d (tallest card)", len(lines), tallLines)
	}
}

func TestTabVisualWidthMatchesRender(t *testing.T) {
	theme.SetActive("flexoki-dark")

	for active := range Tabs {
		bar := RenderTabBar(active, 120)
		if strings.Contains(bar, "\n") {
			t.Fatalf("tab bar should be a single row")
		}

		want := 0
		for i, tab := range Tabs {
			want += TabVisualWidth(tab, i == active)
		}
		want += len(Tabs) - 1 // separators

		// The bar is padded out to the requested width
		if got := lipgloss.Width(bar); got != 120 {
			t.Errorf("active=%d rendered width = %d, want 120 (content %d)", active, got, want)
		}
	}
}
