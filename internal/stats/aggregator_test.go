package stats

import (
	"testing"
	"time"

	"github.com/timekeep/timekeep/internal/interval"
	"github.com/timekeep/timekeep/internal/models"
)

func at(y int, m time.Month, d, hh, mm, ss int) time.Time {
	return time.Date(y, m, d, hh, mm, ss, 0, time.UTC)
}

func entry(activityID int64, start, end time.Time, tagIDs ...int64) models.TimeEntry {
	return models.TimeEntry{
		ActivityID: activityID,
		StartTime:  start,
		EndTime:    end,
		TagIDs:     tagIDs,
	}
}

func TestTotalMinutesAndEntryCount(t *testing.T) {
	window := interval.TimeRange{Start: at(2024, 3, 10, 0, 0, 0), End: at(2024, 3, 11, 0, 0, 0)}
	entries := []models.TimeEntry{
		entry(1, at(2024, 3, 10, 9, 0, 0), at(2024, 3, 10, 10, 0, 0)),
		entry(1, at(2024, 3, 10, 12, 0, 0), at(2024, 3, 10, 12, 30, 0)),
		// Outside the window entirely.
		entry(1, at(2024, 3, 12, 9, 0, 0), at(2024, 3, 12, 10, 0, 0)),
		// Sub-minute overlap truncates to 0 and must not count.
		entry(1, at(2024, 3, 10, 14, 0, 10), at(2024, 3, 10, 14, 0, 40)),
	}

	if got := TotalMinutes(entries, window); got != 90 {
		t.Fatalf("TotalMinutes: got %d, want 90", got)
	}
	if got := EntryCount(entries, window); got != 2 {
		t.Fatalf("EntryCount: got %d, want 2", got)
	}
}

func TestDailyTotalsOneRowPerDate(t *testing.T) {
	// Window spanning exactly 3 calendar days.
	window := interval.TimeRange{Start: at(2024, 3, 10, 0, 0, 0), End: at(2024, 3, 13, 0, 0, 0)}
	entries := []models.TimeEntry{
		entry(1, at(2024, 3, 10, 9, 0, 0), at(2024, 3, 10, 10, 0, 0)),
		entry(1, at(2024, 3, 12, 9, 0, 0), at(2024, 3, 12, 9, 45, 0)),
	}

	totals := DailyTotals(entries, window, time.UTC)
	if len(totals) != 3 {
		t.Fatalf("rows: got %d, want 3", len(totals))
	}
	if totals[0].Minutes != 60 || totals[0].Entries != 1 {
		t.Fatalf("day 0: got (%d, %d), want (60, 1)", totals[0].Minutes, totals[0].Entries)
	}
	if totals[1].Minutes != 0 || totals[1].Entries != 0 {
		t.Fatalf("empty day: got (%d, %d), want (0, 0)", totals[1].Minutes, totals[1].Entries)
	}
	if totals[2].Minutes != 45 {
		t.Fatalf("day 2: got %d, want 45", totals[2].Minutes)
	}

	var sum int64
	for _, row := range totals {
		sum += row.Minutes
	}
	if total := TotalMinutes(entries, window); sum != total {
		t.Fatalf("daily sum %d != TotalMinutes %d", sum, total)
	}
}

func TestDailyTotalsSplitsMidnightCrossingEntry(t *testing.T) {
	window := interval.TimeRange{Start: at(2024, 3, 10, 0, 0, 0), End: at(2024, 3, 12, 0, 0, 0)}
	entries := []models.TimeEntry{
		entry(1, at(2024, 3, 10, 23, 0, 0), at(2024, 3, 11, 1, 0, 0)),
	}

	totals := DailyTotals(entries, window, time.UTC)
	if totals[0].Minutes != 60 || totals[1].Minutes != 60 {
		t.Fatalf("split across midnight: got (%d, %d), want (60, 60)", totals[0].Minutes, totals[1].Minutes)
	}
}

func TestDailyTotalsEmptyWindow(t *testing.T) {
	point := at(2024, 3, 10, 9, 0, 0)
	window := interval.TimeRange{Start: point, End: point}
	if got := DailyTotals(nil, window, time.UTC); got != nil {
		t.Fatalf("empty window: got %d rows, want none", len(got))
	}
}

func TestHourlyTotals(t *testing.T) {
	window := interval.TimeRange{Start: at(2024, 3, 10, 0, 0, 0), End: at(2024, 3, 11, 0, 0, 0)}
	entries := []models.TimeEntry{
		entry(1, at(2024, 3, 10, 9, 0, 0), at(2024, 3, 10, 10, 30, 0)),
		entry(1, at(2024, 3, 10, 9, 30, 0), at(2024, 3, 10, 9, 50, 0)),
	}

	totals := HourlyTotals(entries, window, time.UTC)
	if totals[9] != 80 {
		t.Fatalf("hour 9: got %d, want 80", totals[9])
	}
	if totals[10] != 30 {
		t.Fatalf("hour 10: got %d, want 30", totals[10])
	}
	if _, ok := totals[11]; ok {
		t.Fatal("hour 11 should be absent, not zero")
	}
}

func TestTagTotals(t *testing.T) {
	window := interval.TimeRange{Start: at(2024, 3, 10, 0, 0, 0), End: at(2024, 3, 11, 0, 0, 0)}
	entries := []models.TimeEntry{
		entry(1, at(2024, 3, 10, 9, 0, 0), at(2024, 3, 10, 10, 0, 0), 7, 8),
		entry(1, at(2024, 3, 10, 11, 0, 0), at(2024, 3, 10, 11, 30, 0), 7),
		// No overlap: contributes to no bucket.
		entry(1, at(2024, 3, 12, 9, 0, 0), at(2024, 3, 12, 10, 0, 0), 7),
	}

	totals := TagTotals(entries, window)
	if b := totals[7]; b.Minutes != 90 || b.Count != 2 {
		t.Fatalf("tag 7: got (%d, %d), want (90, 2)", b.Minutes, b.Count)
	}
	if b := totals[8]; b.Minutes != 60 || b.Count != 1 {
		t.Fatalf("tag 8: got (%d, %d), want (60, 1)", b.Minutes, b.Count)
	}
}

func TestActivityTotals(t *testing.T) {
	window := interval.TimeRange{Start: at(2024, 3, 10, 0, 0, 0), End: at(2024, 3, 11, 0, 0, 0)}
	entries := []models.TimeEntry{
		entry(1, at(2024, 3, 10, 9, 0, 0), at(2024, 3, 10, 10, 0, 0)),
		entry(2, at(2024, 3, 10, 10, 0, 0), at(2024, 3, 10, 10, 15, 0)),
		entry(1, at(2024, 3, 10, 11, 0, 0), at(2024, 3, 10, 11, 5, 0)),
	}

	totals := ActivityTotals(entries, window)
	if b := totals[1]; b.Minutes != 65 || b.Count != 2 {
		t.Fatalf("activity 1: got (%d, %d), want (65, 2)", b.Minutes, b.Count)
	}
	if b := totals[2]; b.Minutes != 15 || b.Count != 1 {
		t.Fatalf("activity 2: got (%d, %d), want (15, 1)", b.Minutes, b.Count)
	}
}
