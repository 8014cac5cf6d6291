// Package timer implements the single recording-timer state machine:
// Idle/Running/Paused with a once-per-second elapsed tick, a persisted
// snapshot for crash recovery, and result construction on stop.
package timer

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Status tags the timer state.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusRunning Status = "running"
	StatusPaused  Status = "paused"
)

// State is a snapshot of the machine. The payload fields are only
// meaningful outside Idle; ElapsedMillis is the live tick counter while
// Running and the frozen counter while Paused.
type State struct {
	Status        Status
	ActivityID    int64
	ActivityName  string
	ColorHex      string
	StartTime     time.Time
	ElapsedMillis int64
	TagIDs        []int64
	SessionID     string
}

// Result is produced when stopping from a non-Idle state.
type Result struct {
	ActivityID int64
	StartTime  time.Time
	EndTime    time.Time
	TagIDs     []int64
}

// Clock supplies the current instant. Injected so transitions are
// testable without real time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// SnapshotStore persists the timer state across process death. Load's
// second result is false when no snapshot is stored.
type SnapshotStore interface {
	Save(State) error
	Load() (State, bool, error)
	Clear() error
	HasActive() (bool, error)
}

// Timer is the process-wide recording timer. All transitions are
// serialized behind one mutex; the UI-facing caller and any host relay
// must share the same instance. Construct with New, one per process.
type Timer struct {
	clock        Clock
	store        SnapshotStore
	logger       *zap.Logger
	tickInterval time.Duration
	saveEvery    time.Duration
	onChange     func(State)

	mu            sync.Mutex
	state         State
	tickStop      chan struct{}
	wg            sync.WaitGroup
	sinceLastSave time.Duration
}

// Option tweaks Timer construction.
type Option func(*Timer)

// WithTickInterval overrides the 1s elapsed tick. Test hook.
func WithTickInterval(d time.Duration) Option {
	return func(t *Timer) { t.tickInterval = d }
}

// WithSnapshotInterval sets how often the snapshot is rewritten while
// running, independent of transitions.
func WithSnapshotInterval(d time.Duration) Option {
	return func(t *Timer) { t.saveEvery = d }
}

// WithChangeFunc registers a callback invoked after every transition
// with the new state. Called outside the timer lock.
func WithChangeFunc(fn func(State)) Option {
	return func(t *Timer) { t.onChange = fn }
}

func New(clock Clock, store SnapshotStore, logger *zap.Logger, opts ...Option) *Timer {
	t := &Timer{
		clock:        clock,
		store:        store,
		logger:       logger,
		tickInterval: time.Second,
		saveEvery:    15 * time.Second,
		state:        State{Status: StatusIdle},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start begins a new recording session from any state. A session
// already in flight is abandoned without producing a result.
func (t *Timer) Start(activityID int64, name, colorHex string, tagIDs []int64) {
	t.mu.Lock()
	t.stopTickLocked()
	t.state = State{
		Status:       StatusRunning,
		ActivityID:   activityID,
		ActivityName: name,
		ColorHex:     colorHex,
		StartTime:    t.clock.Now(),
		TagIDs:       append([]int64(nil), tagIDs...),
		SessionID:    uuid.NewString(),
	}
	t.startTickLocked()
	snapshot := t.state
	t.mu.Unlock()

	t.logger.Info("Timer started",
		zap.Int64("activity_id", activityID),
		zap.String("activity", name),
		zap.String("session_id", snapshot.SessionID),
	)
	t.persist(snapshot)
	t.notify(snapshot)
}

// Pause freezes the elapsed counter at its live tick value and cancels
// the tick. No-op unless Running.
func (t *Timer) Pause() {
	t.mu.Lock()
	if t.state.Status != StatusRunning {
		t.mu.Unlock()
		return
	}
	t.stopTickLocked()
	t.state.Status = StatusPaused
	snapshot := t.state
	t.mu.Unlock()

	t.logger.Info("Timer paused",
		zap.Int64("elapsed_ms", snapshot.ElapsedMillis),
		zap.String("session_id", snapshot.SessionID),
	)
	t.persist(snapshot)
	t.notify(snapshot)
}

// Resume continues ticking from the frozen counter, keeping the stored
// start time. The counter is not recomputed from the clock. No-op
// unless Paused.
func (t *Timer) Resume() {
	t.mu.Lock()
	if t.state.Status != StatusPaused {
		t.mu.Unlock()
		return
	}
	t.state.Status = StatusRunning
	t.startTickLocked()
	snapshot := t.state
	t.mu.Unlock()

	t.logger.Info("Timer resumed",
		zap.Int64("elapsed_ms", snapshot.ElapsedMillis),
		zap.String("session_id", snapshot.SessionID),
	)
	t.persist(snapshot)
	t.notify(snapshot)
}

// Stop ends the session and returns its Result, or nil when already
// Idle.
//
// Stopping from Running takes EndTime = now, so a session that was
// paused and resumed still ends at the wall clock, including the time
// spent paused. Stopping from Paused takes EndTime = StartTime +
// ElapsedMillis, which excludes paused time. The two disagree after
// any pause/resume cycle; this is long-standing recorded behavior that
// callers depend on, kept as is pending product clarification.
func (t *Timer) Stop() *Result {
	t.mu.Lock()
	if t.state.Status == StatusIdle {
		t.mu.Unlock()
		return nil
	}
	t.stopTickLocked()

	res := &Result{
		ActivityID: t.state.ActivityID,
		StartTime:  t.state.StartTime,
		TagIDs:     append([]int64(nil), t.state.TagIDs...),
	}
	switch t.state.Status {
	case StatusRunning:
		res.EndTime = t.clock.Now()
	case StatusPaused:
		res.EndTime = t.state.StartTime.Add(time.Duration(t.state.ElapsedMillis) * time.Millisecond)
	}
	sessionID := t.state.SessionID
	t.state = State{Status: StatusIdle}
	snapshot := t.state
	t.mu.Unlock()

	t.logger.Info("Timer stopped",
		zap.Int64("activity_id", res.ActivityID),
		zap.Time("start", res.StartTime),
		zap.Time("end", res.EndTime),
		zap.String("session_id", sessionID),
	)
	if err := t.store.Clear(); err != nil {
		t.logger.Warn("Failed to clear timer snapshot", zap.Error(err))
	}
	t.notify(snapshot)
	return res
}

// Discard drops the session from any state without producing a result.
func (t *Timer) Discard() {
	t.mu.Lock()
	wasIdle := t.state.Status == StatusIdle
	t.stopTickLocked()
	sessionID := t.state.SessionID
	t.state = State{Status: StatusIdle}
	snapshot := t.state
	t.mu.Unlock()

	if !wasIdle {
		t.logger.Info("Timer discarded", zap.String("session_id", sessionID))
	}
	if err := t.store.Clear(); err != nil {
		t.logger.Warn("Failed to clear timer snapshot", zap.Error(err))
	}
	t.notify(snapshot)
}

// Restore re-adopts a persisted state after process restart. For a
// Running snapshot the counter is recomputed as now - StartTime (wall
// clock, ignoring any pause history before the crash) and ticking
// resumes; a Paused snapshot keeps its persisted counter. Idle
// snapshots are ignored.
func (t *Timer) Restore(s State) {
	if s.Status != StatusRunning && s.Status != StatusPaused {
		return
	}
	t.mu.Lock()
	t.stopTickLocked()
	t.state = s
	t.state.TagIDs = append([]int64(nil), s.TagIDs...)
	if s.Status == StatusRunning {
		t.state.ElapsedMillis = t.clock.Now().Sub(s.StartTime).Milliseconds()
		t.startTickLocked()
	}
	snapshot := t.state
	t.mu.Unlock()

	t.logger.Info("Timer restored",
		zap.String("status", string(snapshot.Status)),
		zap.Int64("elapsed_ms", snapshot.ElapsedMillis),
		zap.String("session_id", snapshot.SessionID),
	)
	t.persist(snapshot)
	t.notify(snapshot)
}

// State returns a copy of the current state.
func (t *Timer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.state
	s.TagIDs = append([]int64(nil), t.state.TagIDs...)
	return s
}

// ElapsedMillis returns the live counter value.
func (t *Timer) ElapsedMillis() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.ElapsedMillis
}

// Close cancels any running tick and waits for it to exit.
func (t *Timer) Close() {
	t.mu.Lock()
	t.stopTickLocked()
	t.mu.Unlock()
	t.wg.Wait()
}

// startTickLocked launches the elapsed-counter goroutine for the
// current session. Caller holds t.mu.
func (t *Timer) startTickLocked() {
	stop := make(chan struct{})
	t.tickStop = stop
	t.sinceLastSave = 0
	t.wg.Add(1)
	go t.tickLoop(stop)
}

// stopTickLocked cancels the current tick goroutine, if any. Caller
// holds t.mu. A cancelled tick can never touch the counter again: the
// loop re-checks its own stop channel under the lock before applying
// an increment.
func (t *Timer) stopTickLocked() {
	if t.tickStop != nil {
		close(t.tickStop)
		t.tickStop = nil
	}
}

func (t *Timer) tickLoop(stop chan struct{}) {
	defer t.wg.Done()

	ticker := time.NewTicker(t.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			var snapshot State
			save := false

			t.mu.Lock()
			if t.tickStop != stop || t.state.Status != StatusRunning {
				t.mu.Unlock()
				return
			}
			t.state.ElapsedMillis += t.tickInterval.Milliseconds()
			t.sinceLastSave += t.tickInterval
			if t.sinceLastSave >= t.saveEvery {
				t.sinceLastSave = 0
				snapshot = t.state
				save = true
			}
			t.mu.Unlock()

			if save {
				t.persist(snapshot)
			}
		case <-stop:
			return
		}
	}
}

// persist writes the snapshot. Failures are logged and otherwise
// ignored; the in-memory transition has already taken effect and the
// next write overwrites the snapshot.
func (t *Timer) persist(s State) {
	if err := t.store.Save(s); err != nil {
		t.logger.Warn("Failed to save timer snapshot",
			zap.Error(err),
			zap.String("status", string(s.Status)),
		)
	}
}

func (t *Timer) notify(s State) {
	if t.onChange != nil {
		t.onChange(s)
	}
}
