// Package timeline reconstructs a day's full coverage: recorded
// entries interleaved with the untracked gaps between them.
package timeline

import (
	"sort"
	"time"

	"github.com/timekeep/timekeep/internal/interval"
	"github.com/timekeep/timekeep/internal/models"
)

// Item is either an Entry or a Gap. The two concrete types are the
// only implementations.
type Item interface {
	isItem()
}

// Entry is a recorded time entry on the timeline. The full entry is
// carried even when it crosses midnight; gap arithmetic uses the
// date-clipped bounds.
type Entry struct {
	Entry models.TimeEntry
}

// Gap is a stretch of a day with nothing recorded.
type Gap struct {
	Start time.Time
	End   time.Time
}

func (Entry) isItem() {}
func (Gap) isItem()   {}

// DayGroup is one calendar date's timeline, ordered by time within the
// date.
type DayGroup struct {
	Date         time.Time // local midnight
	Items        []Item
	TotalMinutes int64
}

// DayItems interleaves entries (sorted ascending by start) with the
// untracked gaps covering day. Entry bounds are clipped to the day for
// gap arithmetic; the cursor only ever advances, so overlapping entries
// never produce a gap between them. An empty day yields one full-day
// gap.
func DayItems(entries []models.TimeEntry, day interval.TimeRange) []Item {
	var items []Item
	cursor := day.Start
	for _, e := range entries {
		start := e.StartTime
		if start.Before(day.Start) {
			start = day.Start
		}
		end := e.EndTime
		if end.After(day.End) {
			end = day.End
		}
		if start.After(cursor) {
			items = append(items, Gap{Start: cursor, End: start})
		}
		items = append(items, Entry{Entry: e})
		if end.After(cursor) {
			cursor = end
		}
	}
	if cursor.Before(day.End) {
		items = append(items, Gap{Start: cursor, End: day.End})
	}
	return items
}

// DayGroups builds one group per calendar date the window touches,
// newest first. An entry crossing midnight appears in full on each date
// it touches; its minutes are attributed per date by clipping.
func DayGroups(entries []models.TimeEntry, window interval.TimeRange, loc *time.Location) []DayGroup {
	if !window.End.After(window.Start) {
		return nil
	}

	sorted := make([]models.TimeEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].StartTime.Before(sorted[j].StartTime)
	})

	var groups []DayGroup
	day := interval.DayWindow(window.Start, loc)
	for day.Start.Before(window.End) && len(groups) < interval.MaxHourWindows/24 {
		var dayEntries []models.TimeEntry
		var total int64
		for _, e := range sorted {
			r := interval.TimeRange{Start: e.StartTime, End: e.EndTime}
			if _, ok := interval.Overlap(r, day); ok {
				dayEntries = append(dayEntries, e)
				total += interval.OverlapMinutes(r, day)
			}
		}
		groups = append(groups, DayGroup{
			Date:         day.Start,
			Items:        DayItems(dayEntries, day),
			TotalMinutes: total,
		})
		day = interval.DayWindow(day.End, loc)
	}

	// Newest date first for display.
	for i, j := 0, len(groups)-1; i < j; i, j = i+1, j-1 {
		groups[i], groups[j] = groups[j], groups[i]
	}
	return groups
}
