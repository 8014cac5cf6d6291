package goal

import (
	"testing"
	"time"

	"github.com/timekeep/timekeep/internal/models"
)

func at(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestPeriodRangeDaily(t *testing.T) {
	g := models.Goal{Period: models.PeriodDaily}
	// A Wednesday afternoon.
	r, err := PeriodRange(g, at(2024, 7, 17, 15, 30), time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	if !r.Start.Equal(at(2024, 7, 17, 0, 0)) || !r.End.Equal(at(2024, 7, 18, 0, 0)) {
		t.Fatalf("daily: got [%v, %v)", r.Start, r.End)
	}
}

func TestPeriodRangeWeeklyStartsMonday(t *testing.T) {
	g := models.Goal{Period: models.PeriodWeekly}
	// 2024-07-17 is a Wednesday; its week starts Monday 2024-07-15.
	r, err := PeriodRange(g, at(2024, 7, 17, 15, 30), time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	if !r.Start.Equal(at(2024, 7, 15, 0, 0)) || !r.End.Equal(at(2024, 7, 22, 0, 0)) {
		t.Fatalf("weekly: got [%v, %v)", r.Start, r.End)
	}
}

func TestPeriodRangeWeeklySundayBelongsToPrecedingMonday(t *testing.T) {
	g := models.Goal{Period: models.PeriodWeekly}
	// 2024-07-21 is a Sunday; the week began Monday 2024-07-15.
	r, err := PeriodRange(g, at(2024, 7, 21, 10, 0), time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	if !r.Start.Equal(at(2024, 7, 15, 0, 0)) {
		t.Fatalf("sunday week start: got %v, want 2024-07-15", r.Start)
	}
}

func TestPeriodRangeMonthly(t *testing.T) {
	g := models.Goal{Period: models.PeriodMonthly}
	r, err := PeriodRange(g, at(2024, 2, 14, 9, 0), time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	if !r.Start.Equal(at(2024, 2, 1, 0, 0)) || !r.End.Equal(at(2024, 3, 1, 0, 0)) {
		t.Fatalf("monthly: got [%v, %v)", r.Start, r.End)
	}
}

func TestPeriodRangeCustomIncludesEndDate(t *testing.T) {
	start := at(2024, 7, 1, 0, 0)
	end := at(2024, 7, 10, 0, 0)
	g := models.Goal{Period: models.PeriodCustom, StartDate: &start, EndDate: &end}

	r, err := PeriodRange(g, at(2024, 7, 5, 12, 0), time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	if !r.Start.Equal(at(2024, 7, 1, 0, 0)) || !r.End.Equal(at(2024, 7, 11, 0, 0)) {
		t.Fatalf("custom: got [%v, %v), want end date included in full", r.Start, r.End)
	}
}

func TestPeriodRangeCustomMissingBound(t *testing.T) {
	start := at(2024, 7, 1, 0, 0)
	g := models.Goal{Period: models.PeriodCustom, StartDate: &start}
	if _, err := PeriodRange(g, at(2024, 7, 5, 12, 0), time.UTC); err != ErrMissingCustomBounds {
		t.Fatalf("missing end date: got %v, want ErrMissingCustomBounds", err)
	}
}

func TestEvaluateMinGoalOvershootCompletes(t *testing.T) {
	g := models.Goal{Type: models.GoalTypeMin, TargetMinutes: 120}
	p := Evaluate(g, 150)
	if !p.Completed {
		t.Fatal("min goal at 150/120 must be completed")
	}
	if p.Progress != 1.0 {
		t.Fatalf("progress: got %v, want 1.0 (capped)", p.Progress)
	}
	if p.Percentage != 100 {
		t.Fatalf("percentage: got %d, want 100", p.Percentage)
	}
	if p.RemainingMinutes != 0 {
		t.Fatalf("remaining: got %d, want 0", p.RemainingMinutes)
	}
}

func TestEvaluateMaxGoalOvershootNotCompleted(t *testing.T) {
	g := models.Goal{Type: models.GoalTypeMax, TargetMinutes: 60}
	if p := Evaluate(g, 90); p.Completed {
		t.Fatal("max goal at 90/60 must not be completed")
	}
	if p := Evaluate(g, 45); !p.Completed {
		t.Fatal("max goal at 45/60 must be completed")
	}
}

func TestEvaluateExactGoal(t *testing.T) {
	g := models.Goal{Type: models.GoalTypeExact, TargetMinutes: 30}
	if p := Evaluate(g, 29); p.Completed {
		t.Fatal("exact goal below target must not be completed")
	}
	if p := Evaluate(g, 31); p.Completed {
		t.Fatal("exact goal above target must not be completed")
	}
	if p := Evaluate(g, 30); !p.Completed {
		t.Fatal("exact goal at target must be completed")
	}
}

func TestEvaluateZeroTarget(t *testing.T) {
	g := models.Goal{Type: models.GoalTypeMin, TargetMinutes: 0}
	p := Evaluate(g, 10)
	if p.Progress != 0 {
		t.Fatalf("zero target progress: got %v, want 0", p.Progress)
	}
}

func TestEvaluatePartialProgress(t *testing.T) {
	g := models.Goal{Type: models.GoalTypeMin, TargetMinutes: 100}
	p := Evaluate(g, 40)
	if p.Progress != 0.4 {
		t.Fatalf("progress: got %v, want 0.4", p.Progress)
	}
	if p.Percentage != 40 {
		t.Fatalf("percentage: got %d, want 40", p.Percentage)
	}
	if p.RemainingMinutes != 60 {
		t.Fatalf("remaining: got %d, want 60", p.RemainingMinutes)
	}
	if p.Completed {
		t.Fatal("40/100 min goal must not be completed")
	}
}
