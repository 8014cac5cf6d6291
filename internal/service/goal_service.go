package service

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/timekeep/timekeep/internal/goal"
	"github.com/timekeep/timekeep/internal/models"
	"github.com/timekeep/timekeep/internal/stats"
)

var (
	ErrGoalAlreadyArchived = errors.New("goal is already archived")
	ErrTagHasActiveGoal    = errors.New("tag already has an active goal")
)

// GoalService owns goal lifecycle and progress evaluation. Goals are
// archived, not deleted; at most one active goal exists per tag.
type GoalService struct {
	goals   GoalRepository
	entries EntryRepository
	logger  *zap.Logger
}

func NewGoalService(goals GoalRepository, entries EntryRepository, logger *zap.Logger) *GoalService {
	return &GoalService{goals: goals, entries: entries, logger: logger}
}

func (s *GoalService) CreateGoal(req *models.CreateGoalRequest) (*models.Goal, error) {
	if req.Period == models.PeriodCustom && (req.StartDate == nil || req.EndDate == nil) {
		return nil, goal.ErrMissingCustomBounds
	}
	if active, err := s.goals.HasActiveForTag(req.TagID, 0); err != nil {
		return nil, err
	} else if active {
		return nil, ErrTagHasActiveGoal
	}

	created, err := s.goals.Create(req)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Goal created",
		zap.Int64("goal_id", created.ID),
		zap.Int64("tag_id", created.TagID),
		zap.String("period", string(created.Period)),
	)
	return created, nil
}

func (s *GoalService) UpdateGoal(id int64, req *models.UpdateGoalRequest) (*models.Goal, error) {
	current, err := s.goals.GetByID(id)
	if err != nil {
		return nil, err
	}

	period := current.Period
	if req.Period != nil {
		period = *req.Period
	}
	startDate := current.StartDate
	if req.StartDate != nil {
		startDate = req.StartDate
	}
	endDate := current.EndDate
	if req.EndDate != nil {
		endDate = req.EndDate
	}
	if period == models.PeriodCustom && (startDate == nil || endDate == nil) {
		return nil, goal.ErrMissingCustomBounds
	}

	return s.goals.Update(id, req)
}

func (s *GoalService) GetGoal(id int64) (*models.Goal, error) {
	return s.goals.GetByID(id)
}

func (s *GoalService) ListGoals(activeOnly bool) ([]*models.Goal, error) {
	return s.goals.List(activeOnly)
}

// Archive deactivates a goal. Archiving twice is an error, not a
// silent no-op, so the caller can surface it.
func (s *GoalService) Archive(id int64) error {
	g, err := s.goals.GetByID(id)
	if err != nil {
		return err
	}
	if !g.IsActive {
		return ErrGoalAlreadyArchived
	}
	if err := s.goals.SetActive(id, false); err != nil {
		return err
	}
	s.logger.Info("Goal archived", zap.Int64("goal_id", id))
	return nil
}

// Activate restores an archived goal, refusing when its tag already
// has another active goal. Activating an active goal is a no-op.
func (s *GoalService) Activate(id int64) error {
	g, err := s.goals.GetByID(id)
	if err != nil {
		return err
	}
	if g.IsActive {
		return nil
	}
	if active, err := s.goals.HasActiveForTag(g.TagID, id); err != nil {
		return err
	} else if active {
		return ErrTagHasActiveGoal
	}
	if err := s.goals.SetActive(id, true); err != nil {
		return err
	}
	s.logger.Info("Goal activated", zap.Int64("goal_id", id))
	return nil
}

// ProgressFor evaluates one goal over the period containing now.
func (s *GoalService) ProgressFor(g models.Goal, now time.Time, loc *time.Location) (goal.Progress, error) {
	period, err := goal.PeriodRange(g, now, loc)
	if err != nil {
		return goal.Progress{}, err
	}

	stored, err := s.entries.GetInRange(period.Start, period.End)
	if err != nil {
		return goal.Progress{}, err
	}
	entries := make([]models.TimeEntry, len(stored))
	for i, e := range stored {
		entries[i] = *e
	}

	current := stats.TagTotals(entries, period)[g.TagID].Minutes
	return goal.Evaluate(g, current), nil
}

// EvaluateActive evaluates every active goal independently. A goal
// that fails to evaluate is logged and skipped; it never affects the
// others.
func (s *GoalService) EvaluateActive(now time.Time, loc *time.Location) ([]goal.Progress, error) {
	goals, err := s.goals.List(true)
	if err != nil {
		return nil, err
	}

	progress := make([]goal.Progress, 0, len(goals))
	for _, g := range goals {
		p, err := s.ProgressFor(*g, now, loc)
		if err != nil {
			s.logger.Warn("Failed to evaluate goal",
				zap.Int64("goal_id", g.ID),
				zap.Error(err),
			)
			continue
		}
		progress = append(progress, p)
	}
	return progress, nil
}
