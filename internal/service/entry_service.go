package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/timekeep/timekeep/internal/interval"
	"github.com/timekeep/timekeep/internal/models"
	"github.com/timekeep/timekeep/internal/timer"
)

// MaxMergeGap is the largest gap allowed between consecutive entries
// being merged. Overlapping entries (a negative gap) always qualify.
const MaxMergeGap = 60 * time.Second

var (
	ErrInvalidEntryRange     = errors.New("entry end must be after start")
	ErrSplitOutsideEntry     = errors.New("split point must be strictly inside the entry")
	ErrMergeTooFewEntries    = errors.New("merge requires at least two entries")
	ErrMergeActivityMismatch = errors.New("entries to merge must share one activity")
	ErrMergeGapTooLarge      = errors.New("entries to merge must be adjacent")
)

// EntryService owns entry CRUD and the structural rewrites (split,
// merge, entry construction from a stopped timer). Rewrites never
// mutate entries in place: they create replacements and delete the
// originals, preserving total covered time.
type EntryService struct {
	repo   EntryRepository
	logger *zap.Logger
}

func NewEntryService(repo EntryRepository, logger *zap.Logger) *EntryService {
	return &EntryService{repo: repo, logger: logger}
}

func (s *EntryService) CreateEntry(req *models.CreateEntryRequest) (*models.TimeEntry, error) {
	if !req.EndTime.After(req.StartTime) {
		return nil, ErrInvalidEntryRange
	}
	if req.DurationMinutes == 0 {
		req.DurationMinutes = spanMinutes(req.StartTime, req.EndTime)
	}
	return s.repo.Create(req)
}

func (s *EntryService) GetEntry(id int64) (*models.TimeEntry, error) {
	return s.repo.GetByID(id)
}

func (s *EntryService) EntriesInRange(window interval.TimeRange) ([]*models.TimeEntry, error) {
	return s.repo.GetInRange(window.Start, window.End)
}

func (s *EntryService) UpdateEntry(id int64, req *models.UpdateEntryRequest) (*models.TimeEntry, error) {
	if req.StartTime != nil && req.EndTime != nil && !req.EndTime.After(*req.StartTime) {
		return nil, ErrInvalidEntryRange
	}
	return s.repo.Update(id, req)
}

func (s *EntryService) DeleteEntry(id int64) error {
	return s.repo.Delete(id)
}

// Split replaces one entry with two meeting at the split instant, both
// inheriting the activity, note, and full tag set.
func (s *EntryService) Split(id int64, at time.Time) ([]*models.TimeEntry, error) {
	entry, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !at.After(entry.StartTime) || !at.Before(entry.EndTime) {
		return nil, ErrSplitOutsideEntry
	}

	first, err := s.repo.Create(&models.CreateEntryRequest{
		ActivityID:      entry.ActivityID,
		StartTime:       entry.StartTime,
		EndTime:         at,
		DurationMinutes: spanMinutes(entry.StartTime, at),
		Note:            entry.Note,
		TagIDs:          append([]int64(nil), entry.TagIDs...),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create first half: %w", err)
	}
	second, err := s.repo.Create(&models.CreateEntryRequest{
		ActivityID:      entry.ActivityID,
		StartTime:       at,
		EndTime:         entry.EndTime,
		DurationMinutes: spanMinutes(at, entry.EndTime),
		Note:            entry.Note,
		TagIDs:          append([]int64(nil), entry.TagIDs...),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create second half: %w", err)
	}
	if err := s.repo.Delete(id); err != nil {
		return nil, fmt.Errorf("failed to delete split entry: %w", err)
	}

	s.logger.Info("Entry split",
		zap.Int64("entry_id", id),
		zap.Time("at", at),
		zap.Int64("first_id", first.ID),
		zap.Int64("second_id", second.ID),
	)
	return []*models.TimeEntry{first, second}, nil
}

// Merge replaces two or more entries of one activity with a single
// entry spanning earliest start to latest end. Tags are the deduped
// union; the note is the newline join of all non-blank notes.
func (s *EntryService) Merge(ids []int64) (*models.TimeEntry, error) {
	if len(ids) < 2 {
		return nil, ErrMergeTooFewEntries
	}

	entries := make([]*models.TimeEntry, 0, len(ids))
	for _, id := range ids {
		entry, err := s.repo.GetByID(id)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].StartTime.Before(entries[j].StartTime)
	})

	activityID := entries[0].ActivityID
	for _, entry := range entries[1:] {
		if entry.ActivityID != activityID {
			return nil, ErrMergeActivityMismatch
		}
	}
	for i := 1; i < len(entries); i++ {
		if gap := entries[i].StartTime.Sub(entries[i-1].EndTime); gap > MaxMergeGap {
			return nil, ErrMergeGapTooLarge
		}
	}

	start := entries[0].StartTime
	end := entries[0].EndTime
	seen := make(map[int64]bool)
	var tagIDs []int64
	var notes []string
	for _, entry := range entries {
		if entry.EndTime.After(end) {
			end = entry.EndTime
		}
		for _, tagID := range entry.TagIDs {
			if !seen[tagID] {
				seen[tagID] = true
				tagIDs = append(tagIDs, tagID)
			}
		}
		if entry.Note != nil && strings.TrimSpace(*entry.Note) != "" {
			notes = append(notes, *entry.Note)
		}
	}

	var note *string
	if len(notes) > 0 {
		joined := strings.Join(notes, "\n")
		note = &joined
	}

	merged, err := s.repo.Create(&models.CreateEntryRequest{
		ActivityID:      activityID,
		StartTime:       start,
		EndTime:         end,
		DurationMinutes: spanMinutes(start, end),
		Note:            note,
		TagIDs:          tagIDs,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create merged entry: %w", err)
	}
	for _, entry := range entries {
		if err := s.repo.Delete(entry.ID); err != nil {
			return nil, fmt.Errorf("failed to delete merged entry %d: %w", entry.ID, err)
		}
	}

	s.logger.Info("Entries merged",
		zap.Int64s("entry_ids", ids),
		zap.Int64("merged_id", merged.ID),
	)
	return merged, nil
}

// SaveTimerResult records a stopped timer session as one or two
// entries, split at local midnight when the session crosses it.
func (s *EntryService) SaveTimerResult(res timer.Result, loc *time.Location) ([]*models.TimeEntry, error) {
	var created []*models.TimeEntry
	for _, input := range timer.EntryInputs(res, loc) {
		req := input
		entry, err := s.repo.Create(&req)
		if err != nil {
			return created, fmt.Errorf("failed to record timer session: %w", err)
		}
		created = append(created, entry)
	}

	s.logger.Info("Timer session recorded",
		zap.Int64("activity_id", res.ActivityID),
		zap.Int("entries", len(created)),
	)
	return created, nil
}

// spanMinutes floors a span to whole minutes with the same truncation
// rule the aggregator applies when clipping.
func spanMinutes(start, end time.Time) int64 {
	r := interval.TimeRange{Start: start, End: end}
	return interval.OverlapMinutes(r, r)
}
