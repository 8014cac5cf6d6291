// Package stats aggregates clipped entry durations into totals per
// window, calendar date, local hour of day, tag, and activity. All
// functions are pure over their arguments.
package stats

import (
	"time"

	"github.com/timekeep/timekeep/internal/interval"
	"github.com/timekeep/timekeep/internal/models"
)

// DailyTotal is the aggregate for one calendar date inside a window.
type DailyTotal struct {
	Date    time.Time // local midnight
	Minutes int64
	Entries int
}

// Bucket accumulates minutes and entry count for one grouping key.
type Bucket struct {
	Minutes int64
	Count   int
}

func entryRange(e models.TimeEntry) interval.TimeRange {
	return interval.TimeRange{Start: e.StartTime, End: e.EndTime}
}

// TotalMinutes sums overlap minutes of all entries against window.
func TotalMinutes(entries []models.TimeEntry, window interval.TimeRange) int64 {
	var total int64
	for _, e := range entries {
		total += interval.OverlapMinutes(entryRange(e), window)
	}
	return total
}

// EntryCount counts entries contributing at least one minute to window.
func EntryCount(entries []models.TimeEntry, window interval.TimeRange) int {
	count := 0
	for _, e := range entries {
		if interval.OverlapMinutes(entryRange(e), window) > 0 {
			count++
		}
	}
	return count
}

// DailyTotals aggregates per calendar date, ascending, one row for
// every date the window touches. Dates whose clipped sub-window carries
// no entry minutes still appear with a zero row. An empty window yields
// no rows.
func DailyTotals(entries []models.TimeEntry, window interval.TimeRange, loc *time.Location) []DailyTotal {
	if !window.End.After(window.Start) {
		return nil
	}
	var totals []DailyTotal
	day := interval.DayWindow(window.Start, loc)
	for day.Start.Before(window.End) && len(totals) < interval.MaxHourWindows/24 {
		row := DailyTotal{Date: day.Start}
		if sub, ok := interval.Overlap(day, window); ok {
			for _, e := range entries {
				minutes := interval.OverlapMinutes(entryRange(e), sub)
				if minutes > 0 {
					row.Minutes += minutes
					row.Entries++
				}
			}
		}
		totals = append(totals, row)
		day = interval.DayWindow(day.End, loc)
	}
	return totals
}

// HourlyTotals sums entry overlap minutes by local hour number 0-23
// across every date in the window. Hours with no minutes are absent;
// zero-filling is the caller's concern.
func HourlyTotals(entries []models.TimeEntry, window interval.TimeRange, loc *time.Location) map[int]int64 {
	totals := make(map[int]int64)
	for _, e := range entries {
		for hour, minutes := range interval.OverlapMinutesByHourOfDay(entryRange(e), window, loc) {
			totals[hour] += minutes
		}
	}
	return totals
}

// TagTotals accumulates (minutes, count) per tag id. An entry with no
// window overlap contributes to no bucket; an entry with several tags
// contributes its full overlap to each of them.
func TagTotals(entries []models.TimeEntry, window interval.TimeRange) map[int64]Bucket {
	totals := make(map[int64]Bucket)
	for _, e := range entries {
		minutes := interval.OverlapMinutes(entryRange(e), window)
		if minutes == 0 {
			continue
		}
		for _, tagID := range e.TagIDs {
			b := totals[tagID]
			b.Minutes += minutes
			b.Count++
			totals[tagID] = b
		}
	}
	return totals
}

// ActivityTotals accumulates (minutes, count) per activity id for
// entries overlapping the window.
func ActivityTotals(entries []models.TimeEntry, window interval.TimeRange) map[int64]Bucket {
	totals := make(map[int64]Bucket)
	for _, e := range entries {
		minutes := interval.OverlapMinutes(entryRange(e), window)
		if minutes == 0 {
			continue
		}
		b := totals[e.ActivityID]
		b.Minutes += minutes
		b.Count++
		totals[e.ActivityID] = b
	}
	return totals
}
