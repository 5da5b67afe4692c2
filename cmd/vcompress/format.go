package main

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"vcompress/internal/compressor"
)

var (
	printer   = message.NewPrinter(language.English)
	titleCase = cases.Title(language.English)
)

// formatBytes renders a size with binary units and grouped digits.
func formatBytes(n int64) string {
	neg := n < 0
	value := math.Abs(float64(n))
	units := []string{"B", "KiB", "MiB", "GiB", "TiB"}
	unit := 0
	for value >= 1024 && unit < len(units)-1 {
		value /= 1024
		unit++
	}
	sign := ""
	if neg {
		sign = "-"
	}
	if unit == 0 {
		return printer.Sprintf("%s%d %s", sign, int64(value), units[unit])
	}
	return printer.Sprintf("%s%.1f %s", sign, value, units[unit])
}

// formatCount groups digits, e.g. 1,234,567.
func formatCount(n int64) string {
	return printer.Sprintf("%d", n)
}

func formatRatio(ratio float64) string {
	if ratio <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", ratio*100)
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(100 * time.Millisecond).String()
}

func formatSeconds(seconds float64) string {
	if seconds <= 0 {
		return "-"
	}
	return formatDuration(time.Duration(seconds * float64(time.Second)))
}

// modeLabel renders a mode for display, e.g. "Copy-And-Mute".
func modeLabel(mode compressor.Mode) string {
	return titleCase.String(string(mode))
}
