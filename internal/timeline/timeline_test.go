package timeline

import (
	"testing"
	"time"

	"github.com/timekeep/timekeep/internal/interval"
	"github.com/timekeep/timekeep/internal/models"
)

func at(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func entry(start, end time.Time) models.TimeEntry {
	return models.TimeEntry{ActivityID: 1, StartTime: start, EndTime: end}
}

func day(y int, m time.Month, d int) interval.TimeRange {
	return interval.DayWindow(at(y, m, d, 0, 0), time.UTC)
}

func gaps(items []Item) []Gap {
	var out []Gap
	for _, it := range items {
		if g, ok := it.(Gap); ok {
			out = append(out, g)
		}
	}
	return out
}

func TestDayItemsEmptyDayIsOneFullGap(t *testing.T) {
	d := day(2024, 3, 10)
	items := DayItems(nil, d)
	if len(items) != 1 {
		t.Fatalf("items: got %d, want 1", len(items))
	}
	g, ok := items[0].(Gap)
	if !ok {
		t.Fatalf("item: got %T, want Gap", items[0])
	}
	if !g.Start.Equal(d.Start) || !g.End.Equal(d.End) {
		t.Fatalf("gap: got [%v, %v), want full day", g.Start, g.End)
	}
}

func TestDayItemsGapsAroundAndBetweenEntries(t *testing.T) {
	d := day(2024, 3, 10)
	entries := []models.TimeEntry{
		entry(at(2024, 3, 10, 10, 0), at(2024, 3, 10, 10, 10)),
		entry(at(2024, 3, 10, 10, 11), at(2024, 3, 10, 10, 20)),
	}

	items := DayItems(entries, d)
	if len(items) != 5 {
		t.Fatalf("items: got %d, want 5", len(items))
	}
	gs := gaps(items)
	if len(gs) != 3 {
		t.Fatalf("gaps: got %d, want 3", len(gs))
	}
	if !gs[0].Start.Equal(d.Start) || !gs[0].End.Equal(at(2024, 3, 10, 10, 0)) {
		t.Fatalf("leading gap: got [%v, %v)", gs[0].Start, gs[0].End)
	}
	if !gs[1].Start.Equal(at(2024, 3, 10, 10, 10)) || !gs[1].End.Equal(at(2024, 3, 10, 10, 11)) {
		t.Fatalf("middle gap: got [%v, %v)", gs[1].Start, gs[1].End)
	}
	if !gs[2].Start.Equal(at(2024, 3, 10, 10, 20)) || !gs[2].End.Equal(d.End) {
		t.Fatalf("trailing gap: got [%v, %v)", gs[2].Start, gs[2].End)
	}
}

func TestDayItemsOverlappingEntriesProduceNoSpuriousGap(t *testing.T) {
	d := day(2024, 3, 10)
	entries := []models.TimeEntry{
		entry(at(2024, 3, 10, 10, 0), at(2024, 3, 10, 10, 30)),
		entry(at(2024, 3, 10, 10, 20), at(2024, 3, 10, 10, 40)),
	}

	gs := gaps(DayItems(entries, d))
	if len(gs) != 2 {
		t.Fatalf("gaps: got %d, want 2 (start and end of day only)", len(gs))
	}
	if !gs[1].Start.Equal(at(2024, 3, 10, 10, 40)) {
		t.Fatalf("trailing gap start: got %v, want 10:40", gs[1].Start)
	}
}

func TestDayItemsContainedEntryDoesNotRetreatCursor(t *testing.T) {
	d := day(2024, 3, 10)
	entries := []models.TimeEntry{
		entry(at(2024, 3, 10, 10, 0), at(2024, 3, 10, 12, 0)),
		// Entirely inside the first entry.
		entry(at(2024, 3, 10, 10, 30), at(2024, 3, 10, 11, 0)),
	}

	gs := gaps(DayItems(entries, d))
	if len(gs) != 2 {
		t.Fatalf("gaps: got %d, want 2", len(gs))
	}
	if !gs[1].Start.Equal(at(2024, 3, 10, 12, 0)) {
		t.Fatalf("trailing gap must start at outer entry end, got %v", gs[1].Start)
	}
}

func TestDayItemsCoversWholeDayWithoutOmission(t *testing.T) {
	d := day(2024, 3, 10)
	entries := []models.TimeEntry{
		entry(at(2024, 3, 10, 9, 0), at(2024, 3, 10, 9, 30)),
		entry(at(2024, 3, 10, 14, 0), at(2024, 3, 10, 15, 0)),
	}

	items := DayItems(entries, d)
	cursor := d.Start
	for _, it := range items {
		switch v := it.(type) {
		case Gap:
			if !v.Start.Equal(cursor) {
				t.Fatalf("gap starts at %v, cursor at %v", v.Start, cursor)
			}
			cursor = v.End
		case Entry:
			cursor = v.Entry.EndTime
		}
	}
	if !cursor.Equal(d.End) {
		t.Fatalf("coverage ends at %v, want %v", cursor, d.End)
	}
}

func TestDayGroupsNewestFirstWithTotals(t *testing.T) {
	window := interval.TimeRange{Start: at(2024, 3, 10, 0, 0), End: at(2024, 3, 12, 0, 0)}
	entries := []models.TimeEntry{
		entry(at(2024, 3, 10, 9, 0), at(2024, 3, 10, 10, 0)),
		entry(at(2024, 3, 11, 9, 0), at(2024, 3, 11, 9, 30)),
	}

	groups := DayGroups(entries, window, time.UTC)
	if len(groups) != 2 {
		t.Fatalf("groups: got %d, want 2", len(groups))
	}
	if !groups[0].Date.After(groups[1].Date) {
		t.Fatal("groups must be ordered newest first")
	}
	if groups[0].TotalMinutes != 30 || groups[1].TotalMinutes != 60 {
		t.Fatalf("totals: got (%d, %d), want (30, 60)", groups[0].TotalMinutes, groups[1].TotalMinutes)
	}
}

func TestDayGroupsMidnightCrossingEntryAppearsOnBothDates(t *testing.T) {
	window := interval.TimeRange{Start: at(2024, 3, 10, 0, 0), End: at(2024, 3, 12, 0, 0)}
	entries := []models.TimeEntry{
		entry(at(2024, 3, 10, 23, 0), at(2024, 3, 11, 1, 0)),
	}

	groups := DayGroups(entries, window, time.UTC)
	for _, g := range groups {
		found := false
		for _, it := range g.Items {
			if _, ok := it.(Entry); ok {
				found = true
			}
		}
		if !found {
			t.Fatalf("date %v missing the midnight-crossing entry", g.Date)
		}
		if g.TotalMinutes != 60 {
			t.Fatalf("date %v: got %d minutes, want 60", g.Date, g.TotalMinutes)
		}
	}

	// Gap arithmetic on the second date starts at 01:00, not at the
	// entry's real start on the previous day.
	second := groups[0] // newest first: 03-11
	gs := gaps(second.Items)
	if len(gs) != 1 || !gs[0].Start.Equal(at(2024, 3, 11, 1, 0)) {
		t.Fatalf("second-date gap: got %+v, want single gap from 01:00", gs)
	}
}
