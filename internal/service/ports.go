package service

import (
	"time"

	"github.com/timekeep/timekeep/internal/models"
)

// EntryRepository is the durable store for time entries. Implemented by
// repository.TimeEntryRepository; faked in tests.
type EntryRepository interface {
	Create(req *models.CreateEntryRequest) (*models.TimeEntry, error)
	GetByID(id int64) (*models.TimeEntry, error)
	GetInRange(start, end time.Time) ([]*models.TimeEntry, error)
	GetByActivity(activityID int64) ([]*models.TimeEntry, error)
	Update(id int64, req *models.UpdateEntryRequest) (*models.TimeEntry, error)
	Delete(id int64) error
	HasOverlapping(start, end time.Time, excludeID int64) (bool, error)
}

// GoalRepository is the durable store for goals.
type GoalRepository interface {
	Create(req *models.CreateGoalRequest) (*models.Goal, error)
	GetByID(id int64) (*models.Goal, error)
	Update(id int64, req *models.UpdateGoalRequest) (*models.Goal, error)
	SetActive(id int64, active bool) error
	List(activeOnly bool) ([]*models.Goal, error)
	HasActiveForTag(tagID, excludeID int64) (bool, error)
}
