package interval

import "time"

// DaySlice is the portion of one calendar date that a range occupies
// after clipping to that date's midnight-to-midnight window. Computed
// on demand, never persisted.
type DaySlice struct {
	Date  time.Time // local midnight of the date
	Slice TimeRange
}

// DaySlices splits r across the calendar dates it touches in loc,
// ascending. A range ending exactly at midnight does not produce a
// slice for the following date. Bounded by MaxHourWindows/24 dates.
func DaySlices(r TimeRange, loc *time.Location) []DaySlice {
	if !r.End.After(r.Start) {
		return nil
	}
	var slices []DaySlice
	day := DayWindow(r.Start, loc)
	for day.Start.Before(r.End) && len(slices) < MaxHourWindows/24 {
		if clipped, ok := Overlap(r, day); ok {
			slices = append(slices, DaySlice{Date: day.Start, Slice: clipped})
		}
		day = DayWindow(day.End, loc)
	}
	return slices
}
