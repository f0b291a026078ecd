// Package clock tracks the digit string shown on the face and decides, per
// glyph cell, whether a frame draws it statically or advances its morph.
package clock

import (
	"fmt"
	"strings"
	"time"
)

// Reading is one wall-clock sample.
type Reading struct {
	Hour, Minute, Second int
	Year, Month, Day     int
}

func ReadingOf(t time.Time) Reading {
	return Reading{
		Hour: t.Hour(), Minute: t.Minute(), Second: t.Second(),
		Year: t.Year(), Month: int(t.Month()), Day: t.Day(),
	}
}

func hour(r Reading, use24h bool) int {
	if use24h {
		return r.Hour
	}
	h := r.Hour % 12
	if h == 0 {
		h = 12
	}
	return h
}

// FormatDigits returns HHMMSS, or HHMM when seconds is false. 12-hour mode
// runs 12, 01..11.
func FormatDigits(r Reading, use24h, seconds bool) string {
	if seconds {
		return fmt.Sprintf("%02d%02d%02d", hour(r, use24h), r.Minute, r.Second)
	}
	return fmt.Sprintf("%02d%02d", hour(r, use24h), r.Minute)
}

// FormatTime returns HH:MM:SS for status output.
func FormatTime(r Reading, use24h bool) string {
	return fmt.Sprintf("%02d:%02d:%02d", hour(r, use24h), r.Minute, r.Second)
}

// FormatDate returns YYYY-MM-DD.
func FormatDate(r Reading) string {
	return fmt.Sprintf("%04d-%02d-%02d", r.Year, r.Month, r.Day)
}

// Placeholder is the digit string shown before the first reading.
func Placeholder(cells int) string { return strings.Repeat("-", cells) }

// CellCount returns the number of digit cells for the format.
func CellCount(seconds bool) int {
	if seconds {
		return 6
	}
	return 4
}
