// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatMoney formats a dollar amount, coarsening precision as values grow.
// e.g., 1234567 -> "$1,234,567", -250000 -> "-$250,000", 42.5 -> "$42.50"
func FormatMoney(amount float64) string {
	if amount < 0 {
		return "-" + FormatMoney(-amount)
	}
	if amount >= 1000 {
		return "$" + FormatNumber(int64(math.Round(amount)))
	}
	if amount >= 100 {
		return fmt.Sprintf("$%.0f", amount)
	}
	return fmt.Sprintf("$%.2f", amount)
}

// FormatMoneyDelta formats a year-over-year savings change with its sign.
func FormatMoneyDelta(current, previous float64) string {
	delta := current - previous
	if delta >= 0 {
		return "+" + FormatMoney(delta)
	}
	return "-" + FormatMoney(-delta)
}

// FormatAge renders an age, with unborn years shown as a countdown.
// e.g., 7 -> "7", -2 -> "in 2y", 0 -> "born"
func FormatAge(age int) string {
	switch {
	case age < 0:
		return fmt.Sprintf("in %dy", -age)
	case age == 0:
		return "born"
	default:
		return strconv.Itoa(age)
	}
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a whole-number percentage, as used by focus mixes.
func FormatPercent(pct int) string {
	return strconv.Itoa(pct) + "%"
}

// FormatList joins items with commas, eliding to "and N more" past limit.
func FormatList(items []string, limit int) string {
	if len(items) == 0 {
		return ""
	}
	if limit <= 0 || len(items) <= limit {
		return strings.Join(items, ", ")
	}
	shown := strings.Join(items[:limit], ", ")
	return fmt.Sprintf("%s and %d more", shown, len(items)-limit)
}

// Truncate shortens s to max runes, appending an ellipsis when cut.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return string(runes[:max-1]) + "…"
}
