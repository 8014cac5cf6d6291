package models

import "time"

// GoalType controls how progress against the target is judged.
type GoalType string

const (
	GoalTypeMin   GoalType = "min"   // completed when current >= target
	GoalTypeMax   GoalType = "max"   // completed when current <= target
	GoalTypeExact GoalType = "exact" // completed when current == target
)

// GoalPeriod is the recurrence cadence a goal is evaluated over.
type GoalPeriod string

const (
	PeriodDaily   GoalPeriod = "daily"
	PeriodWeekly  GoalPeriod = "weekly"
	PeriodMonthly GoalPeriod = "monthly"
	PeriodCustom  GoalPeriod = "custom"
)

// Goal is a target number of minutes against a tag over a recurring
// period. StartDate and EndDate are required for PeriodCustom and
// ignored otherwise. Goals are archived (IsActive=false) rather than
// deleted by default.
type Goal struct {
	ID            int64      `json:"id"`
	TagID         int64      `json:"tag_id"`
	TargetMinutes int64      `json:"target_minutes"`
	Type          GoalType   `json:"type"`
	Period        GoalPeriod `json:"period"`
	StartDate     *time.Time `json:"start_date,omitempty"`
	EndDate       *time.Time `json:"end_date,omitempty"`
	IsActive      bool       `json:"is_active"`
	CreatedAt     time.Time  `json:"created_at"`
}

type CreateGoalRequest struct {
	TagID         int64      `json:"tag_id"`
	TargetMinutes int64      `json:"target_minutes"`
	Type          GoalType   `json:"type"`
	Period        GoalPeriod `json:"period"`
	StartDate     *time.Time `json:"start_date,omitempty"`
	EndDate       *time.Time `json:"end_date,omitempty"`
}

type UpdateGoalRequest struct {
	TargetMinutes *int64      `json:"target_minutes,omitempty"`
	Type          *GoalType   `json:"type,omitempty"`
	Period        *GoalPeriod `json:"period,omitempty"`
	StartDate     *time.Time  `json:"start_date,omitempty"`
	EndDate       *time.Time  `json:"end_date,omitempty"`
}
