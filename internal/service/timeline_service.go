package service

import (
	"time"

	"go.uber.org/zap"

	"github.com/timekeep/timekeep/internal/interval"
	"github.com/timekeep/timekeep/internal/models"
	"github.com/timekeep/timekeep/internal/timeline"
)

// TimelineService assembles per-day timelines (entries plus untracked
// gaps) from stored entries.
type TimelineService struct {
	entries EntryRepository
	logger  *zap.Logger
}

func NewTimelineService(entries EntryRepository, logger *zap.Logger) *TimelineService {
	return &TimelineService{entries: entries, logger: logger}
}

// DayGroups returns one group per calendar date in the window, newest
// first.
func (s *TimelineService) DayGroups(window interval.TimeRange, loc *time.Location) ([]timeline.DayGroup, error) {
	stored, err := s.entries.GetInRange(window.Start, window.End)
	if err != nil {
		return nil, err
	}
	entries := make([]models.TimeEntry, len(stored))
	for i, e := range stored {
		entries[i] = *e
	}
	return timeline.DayGroups(entries, window, loc), nil
}

// DayTimeline returns the item sequence covering one calendar date.
func (s *TimelineService) DayTimeline(date time.Time, loc *time.Location) ([]timeline.Item, error) {
	day := interval.DayWindow(date, loc)
	groups, err := s.DayGroups(day, loc)
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return []timeline.Item{timeline.Gap{Start: day.Start, End: day.End}}, nil
	}
	return groups[0].Items, nil
}
