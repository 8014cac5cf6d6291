package goal

import "github.com/timekeep/timekeep/internal/models"

// Progress is the derived evaluation of one goal over its current
// period. Never persisted.
type Progress struct {
	Goal             models.Goal
	CurrentMinutes   int64
	TargetMinutes    int64
	Progress         float64 // fraction of target, capped to [0, 1]
	Percentage       int     // 0-100
	RemainingMinutes int64   // max(target-current, 0)
	Completed        bool
}

// Evaluate judges currentMinutes against the goal's target. Each goal
// is evaluated independently; goals never affect each other.
func Evaluate(g models.Goal, currentMinutes int64) Progress {
	p := Progress{
		Goal:           g,
		CurrentMinutes: currentMinutes,
		TargetMinutes:  g.TargetMinutes,
	}

	if g.TargetMinutes > 0 {
		frac := float64(currentMinutes) / float64(g.TargetMinutes)
		if frac > 1 {
			frac = 1
		}
		if frac < 0 {
			frac = 0
		}
		p.Progress = frac
	}
	p.Percentage = int(p.Progress * 100)

	if remaining := g.TargetMinutes - currentMinutes; remaining > 0 {
		p.RemainingMinutes = remaining
	}

	switch g.Type {
	case models.GoalTypeMin:
		p.Completed = currentMinutes >= g.TargetMinutes
	case models.GoalTypeMax:
		p.Completed = currentMinutes <= g.TargetMinutes
	case models.GoalTypeExact:
		p.Completed = currentMinutes == g.TargetMinutes
	}
	return p
}
