package timer

import (
	"time"

	"github.com/timekeep/timekeep/internal/interval"
	"github.com/timekeep/timekeep/internal/models"
)

// EntryInputs turns a stopped session into entry create requests.
// A degenerate result (end <= start) is bumped to one second long. A
// session contained in one local calendar date yields one request; one
// crossing local midnight is split into exactly two at the midnight
// boundary, both carrying the same activity and tags and no note.
func EntryInputs(res Result, loc *time.Location) []models.CreateEntryRequest {
	start := res.StartTime
	end := res.EndTime
	if !end.After(start) {
		end = start.Add(time.Second)
	}

	day := interval.DayWindow(start, loc)
	if !end.After(day.End) {
		return []models.CreateEntryRequest{entryInput(res, start, end)}
	}
	return []models.CreateEntryRequest{
		entryInput(res, start, day.End),
		entryInput(res, day.End, end),
	}
}

func entryInput(res Result, start, end time.Time) models.CreateEntryRequest {
	return models.CreateEntryRequest{
		ActivityID:      res.ActivityID,
		StartTime:       start,
		EndTime:         end,
		DurationMinutes: spanMinutes(start, end),
		TagIDs:          append([]int64(nil), res.TagIDs...),
	}
}

// spanMinutes applies the same floor-to-minute rule the aggregator
// uses, keeping the cached duration consistent with reporting.
func spanMinutes(start, end time.Time) int64 {
	return interval.OverlapMinutes(
		interval.TimeRange{Start: start, End: end},
		interval.TimeRange{Start: start, End: end},
	)
}
