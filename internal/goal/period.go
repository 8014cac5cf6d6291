// Package goal resolves a goal's cadence into a concrete evaluation
// window and judges progress against its target.
package goal

import (
	"errors"
	"fmt"
	"time"

	"github.com/timekeep/timekeep/internal/interval"
	"github.com/timekeep/timekeep/internal/models"
)

// ErrMissingCustomBounds is returned when a custom-period goal lacks a
// start or end date. Stored custom goals always carry both; this guards
// goals constructed by hand.
var ErrMissingCustomBounds = errors.New("goal: custom period requires start and end dates")

// PeriodRange resolves the evaluation window containing now for the
// goal's cadence, in loc. Weeks start on Monday. A custom period covers
// [startDate, endDate + 1 day) so the end date is included in full.
func PeriodRange(g models.Goal, now time.Time, loc *time.Location) (interval.TimeRange, error) {
	switch g.Period {
	case models.PeriodDaily:
		return interval.DayWindow(now, loc), nil

	case models.PeriodWeekly:
		local := now.In(loc)
		offset := int(local.Weekday())
		if offset == 0 {
			offset = 7
		}
		y, m, d := local.AddDate(0, 0, -offset+1).Date()
		start := time.Date(y, m, d, 0, 0, 0, 0, loc)
		return interval.TimeRange{Start: start, End: start.AddDate(0, 0, 7)}, nil

	case models.PeriodMonthly:
		y, m, _ := now.In(loc).Date()
		start := time.Date(y, m, 1, 0, 0, 0, 0, loc)
		return interval.TimeRange{Start: start, End: start.AddDate(0, 1, 0)}, nil

	case models.PeriodCustom:
		if g.StartDate == nil || g.EndDate == nil {
			return interval.TimeRange{}, ErrMissingCustomBounds
		}
		start := interval.DayWindow(*g.StartDate, loc).Start
		end := interval.DayWindow(*g.EndDate, loc).End
		return interval.TimeRange{Start: start, End: end}, nil

	default:
		return interval.TimeRange{}, fmt.Errorf("goal: unknown period %q", g.Period)
	}
}
