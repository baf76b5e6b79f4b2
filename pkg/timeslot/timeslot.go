package timeslot

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Package timeslot works with clock times as minutes since midnight and
// half-open [Start, End) ranges. Bookings are stored in 24-hour "HH:MM"
// form; the 12-hour helpers exist so conversion happens at exactly one
// boundary instead of being scattered through callers.

var ErrInvalidTime = errors.New("invalid time, expected HH:MM")

// MinutesPerDay is the exclusive upper bound for a time of day.
const MinutesPerDay = 24 * 60

// Range is a half-open [Start, End) interval in minutes since midnight.
type Range struct {
	Start int
	End   int
}

// IsValid reports whether the range is well formed (start before end, within a day).
func (r Range) IsValid() bool {
	return r.Start >= 0 && r.End <= MinutesPerDay && r.Start < r.End
}

// ParseHHMM parses a 24-hour "HH:MM" string into minutes since midnight.
func ParseHHMM(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, ErrInvalidTime
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, ErrInvalidTime
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, ErrInvalidTime
	}
	return hours*60 + minutes, nil
}

// FormatHHMM formats minutes since midnight as 24-hour "HH:MM".
func FormatHHMM(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// Convert12To24 converts "hh:MM AM/PM" to 24-hour "HH:MM".
// "12:00 AM" maps to "00:00" and "12:00 PM" to "12:00".
func Convert12To24(s string) (string, error) {
	trimmed := strings.TrimSpace(s)
	upper := strings.ToUpper(trimmed)

	var period string
	switch {
	case strings.HasSuffix(upper, "AM"):
		period = "AM"
	case strings.HasSuffix(upper, "PM"):
		period = "PM"
	default:
		return "", ErrInvalidTime
	}

	clock := strings.TrimSpace(trimmed[:len(trimmed)-2])
	parts := strings.Split(clock, ":")
	if len(parts) != 2 {
		return "", ErrInvalidTime
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 1 || hours > 12 {
		return "", ErrInvalidTime
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return "", ErrInvalidTime
	}

	if period == "AM" && hours == 12 {
		hours = 0
	}
	if period == "PM" && hours != 12 {
		hours += 12
	}

	return fmt.Sprintf("%02d:%02d", hours, minutes), nil
}

// Convert24To12 converts 24-hour "HH:MM" to "hh:MM AM/PM".
func Convert24To12(s string) (string, error) {
	total, err := ParseHHMM(s)
	if err != nil {
		return "", err
	}
	hours := total / 60
	minutes := total % 60

	period := "AM"
	if hours >= 12 {
		period = "PM"
	}
	hours12 := hours % 12
	if hours12 == 0 {
		hours12 = 12
	}
	return fmt.Sprintf("%02d:%02d %s", hours12, minutes, period), nil
}

// Normalize24 accepts a time in either 12-hour or 24-hour form and returns
// the 24-hour "HH:MM" representation.
func Normalize24(s string) (string, error) {
	upper := strings.ToUpper(strings.TrimSpace(s))
	if strings.HasSuffix(upper, "AM") || strings.HasSuffix(upper, "PM") {
		return Convert12To24(s)
	}
	m, err := ParseHHMM(s)
	if err != nil {
		return "", err
	}
	return FormatHHMM(m), nil
}

// MergeRanges returns the union of the given ranges as a sorted,
// non-overlapping list. Invalid ranges are dropped.
func MergeRanges(ranges []Range) []Range {
	valid := make([]Range, 0, len(ranges))
	for _, r := range ranges {
		if r.IsValid() {
			valid = append(valid, r)
		}
	}
	if len(valid) == 0 {
		return nil
	}

	sort.Slice(valid, func(i, j int) bool { return valid[i].Start < valid[j].Start })

	merged := []Range{valid[0]}
	for _, r := range valid[1:] {
		last := &merged[len(merged)-1]
		if r.Start <= last.End {
			if r.End > last.End {
				last.End = r.End
			}
			continue
		}
		merged = append(merged, r)
	}
	return merged
}

// SubtractRange removes block from every range, splitting ranges that
// straddle it.
func SubtractRange(ranges []Range, block Range) []Range {
	if !block.IsValid() {
		return ranges
	}
	var out []Range
	for _, r := range ranges {
		if block.End <= r.Start || block.Start >= r.End {
			out = append(out, r)
			continue
		}
		if r.Start < block.Start {
			out = append(out, Range{Start: r.Start, End: block.Start})
		}
		if block.End < r.End {
			out = append(out, Range{Start: block.End, End: r.End})
		}
	}
	return out
}

// Discretize cuts each range into slot start times at the given step,
// keeping only starts where a full step still fits inside the range.
// Ranges are merged first so overlapping inputs do not produce duplicates.
func Discretize(ranges []Range, step int) []int {
	if step <= 0 {
		return nil
	}
	var starts []int
	for _, r := range MergeRanges(ranges) {
		for start := r.Start; start+step <= r.End; start += step {
			starts = append(starts, start)
		}
	}
	return starts
}
