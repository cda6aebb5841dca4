package tui

import (
	"fmt"
	"math"
	"math/big"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// FormatWithCommas groups the digits of n in threes: 1234567 -> "1,234,567".
func FormatWithCommas(n uint64) string {
	if n <= math.MaxInt64 {
		return humanize.Comma(int64(n))
	}
	return humanize.BigComma(new(big.Int).SetUint64(n))
}

// FormatUptime renders d as HhMMmSSs, dropping leading zero units:
// "2h07m09s", "7m09s", "9s".
func FormatUptime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm%02ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

// FormatAge renders an elapsed duration as " 5s ago", "12m ago" or " 3h ago".
func FormatAge(d time.Duration) string {
	secs := int64(d / time.Second)
	if secs < 0 {
		secs = 0
	}
	switch {
	case secs < 60:
		return fmt.Sprintf("%2ds ago", secs)
	case secs < 3600:
		return fmt.Sprintf("%2dm ago", secs/60)
	default:
		return fmt.Sprintf("%2dh ago", secs/3600)
	}
}

// FormatRate renders a thoughts-per-hour rate with no decimals. Non-finite
// or negative rates show as zero.
func FormatRate(r float64) string {
	if math.IsNaN(r) || math.IsInf(r, 0) || r < 0 {
		r = 0
	}
	return fmt.Sprintf("%.0f/hr", r)
}

// singleLine collapses line breaks so free text stays one logical line.
func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
