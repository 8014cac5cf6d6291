// Package notify relays timer transitions to desktop notifications.
// It displays state and owns no timer logic of its own.
package notify

import (
	"fmt"
	"time"

	"github.com/gen2brain/beeep"
	"go.uber.org/zap"

	"github.com/timekeep/timekeep/internal/timer"
)

// Relay displays timer state changes. Disabled relays swallow every
// call, so callers never branch on configuration.
type Relay struct {
	enabled bool
	logger  *zap.Logger
}

func NewRelay(enabled bool, logger *zap.Logger) *Relay {
	return &Relay{enabled: enabled, logger: logger}
}

// TimerChanged shows a notification for the new state. Failures are
// logged and ignored; notifications are best-effort display only.
func (r *Relay) TimerChanged(s timer.State) {
	if !r.enabled {
		return
	}

	var title, body string
	switch s.Status {
	case timer.StatusRunning:
		title = "Timer running"
		body = fmt.Sprintf("%s since %s", s.ActivityName, s.StartTime.Local().Format("15:04"))
	case timer.StatusPaused:
		title = "Timer paused"
		body = fmt.Sprintf("%s at %s", s.ActivityName, formatElapsed(s.ElapsedMillis))
	case timer.StatusIdle:
		title = "Timer stopped"
		body = "No recording in progress"
	default:
		return
	}

	if err := beeep.Notify(title, body, ""); err != nil {
		r.logger.Warn("Failed to show notification",
			zap.Error(err),
			zap.String("status", string(s.Status)),
		)
	}
}

func formatElapsed(millis int64) string {
	d := time.Duration(millis) * time.Millisecond
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
