// Package interval implements the half-open time-range primitive the
// rest of the engine is built on: intersection, local-calendar day and
// hour windows, and minute accounting with floor truncation.
//
// All ranges are half-open [Start, End) with millisecond resolution.
// Minute counting truncates both clipped bounds down to the minute and
// never rounds: a 2-second overlap counts as 0 minutes, while a
// 61-second overlap straddling a minute boundary counts as exactly 1.
package interval

import (
	"errors"
	"time"
)

// MaxHourWindows bounds hour-window generation to two years of hours.
// HourWindows truncates its output at this many windows rather than
// looping on malformed input.
const MaxHourWindows = 17544

var ErrInvalidRange = errors.New("interval: end before start")

// TimeRange is an immutable half-open [Start, End) interval in absolute
// time. Zero-length ranges are permitted but never overlap anything.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// NewRange validates End >= Start.
func NewRange(start, end time.Time) (TimeRange, error) {
	if end.Before(start) {
		return TimeRange{}, ErrInvalidRange
	}
	return TimeRange{Start: start, End: end}, nil
}

// Duration returns End - Start.
func (r TimeRange) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// Contains reports whether t falls inside [Start, End).
func (r TimeRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// Overlap returns the intersection of a and b. The second result is
// false when the intersection is empty; touching ranges do not overlap.
func Overlap(a, b TimeRange) (TimeRange, bool) {
	start := a.Start
	if b.Start.After(start) {
		start = b.Start
	}
	end := a.End
	if b.End.Before(end) {
		end = b.End
	}
	if !end.After(start) {
		return TimeRange{}, false
	}
	return TimeRange{Start: start, End: end}, true
}

// DayWindow returns [local midnight of date, local midnight of the next
// day) in loc. The window is DST-aware: a transition day may be 23 or
// 25 hours long.
func DayWindow(date time.Time, loc *time.Location) TimeRange {
	y, m, d := date.In(loc).Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	return TimeRange{Start: start, End: start.AddDate(0, 0, 1)}
}

// OverlapMinutes clips entry to window and counts whole minutes between
// the clipped bounds, truncating each bound down to the minute first.
// Returns 0 when there is no overlap.
func OverlapMinutes(entry, window TimeRange) int64 {
	clipped, ok := Overlap(entry, window)
	if !ok {
		return 0
	}
	start := clipped.Start.Truncate(time.Minute)
	end := clipped.End.Truncate(time.Minute)
	minutes := int64(end.Sub(start) / time.Minute)
	if minutes < 0 {
		return 0
	}
	return minutes
}

// HourWindows partitions window into ascending local clock-hour windows
// in loc, the first and last clipped to the window bounds. Output is
// truncated at MaxHourWindows.
func HourWindows(window TimeRange, loc *time.Location) []TimeRange {
	if !window.End.After(window.Start) {
		return nil
	}
	local := window.Start.In(loc)
	y, m, d := local.Date()
	cur := time.Date(y, m, d, local.Hour(), 0, 0, 0, loc)

	var windows []TimeRange
	for cur.Before(window.End) && len(windows) < MaxHourWindows {
		next := cur.Add(time.Hour)
		hour := TimeRange{Start: cur, End: next}
		if clipped, ok := Overlap(hour, window); ok {
			windows = append(windows, clipped)
		}
		cur = next
	}
	return windows
}

// OverlapMinutesByHourOfDay buckets an entry's overlap minutes against
// window by local hour number 0-23. Hours from different calendar dates
// inside the window sum into the same bucket. Hours with no minutes are
// absent from the result.
func OverlapMinutesByHourOfDay(entry, window TimeRange, loc *time.Location) map[int]int64 {
	totals := make(map[int]int64)
	for _, hour := range HourWindows(window, loc) {
		minutes := OverlapMinutes(entry, hour)
		if minutes > 0 {
			totals[hour.Start.In(loc).Hour()] += minutes
		}
	}
	return totals
}
