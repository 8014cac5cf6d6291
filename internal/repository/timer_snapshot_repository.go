package repository

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/timekeep/timekeep/internal/timer"
)

// Snapshot keys in the timer_state key-value table.
const (
	snapStatus       = "status"
	snapActivityID   = "activity_id"
	snapActivityName = "activity_name"
	snapColorHex     = "color_hex"
	snapStartMillis  = "start_ms"
	snapElapsed      = "elapsed_ms"
	snapTagIDs       = "tag_ids"
	snapSessionID    = "session_id"
)

// TimerSnapshotRepository persists the timer state as rows in a small
// key-value table, one value per key. Implements timer.SnapshotStore.
type TimerSnapshotRepository struct {
	db *sql.DB
}

func NewTimerSnapshotRepository(db *sql.DB) *TimerSnapshotRepository {
	return &TimerSnapshotRepository{db: db}
}

func (r *TimerSnapshotRepository) Save(state timer.State) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	tagIDs := make([]string, len(state.TagIDs))
	for i, id := range state.TagIDs {
		tagIDs[i] = strconv.FormatInt(id, 10)
	}

	values := map[string]string{
		snapStatus:       string(state.Status),
		snapActivityID:   strconv.FormatInt(state.ActivityID, 10),
		snapActivityName: state.ActivityName,
		snapColorHex:     state.ColorHex,
		snapStartMillis:  strconv.FormatInt(state.StartTime.UnixMilli(), 10),
		snapElapsed:      strconv.FormatInt(state.ElapsedMillis, 10),
		snapTagIDs:       strings.Join(tagIDs, ","),
		snapSessionID:    state.SessionID,
	}

	stmt, err := tx.Prepare(`
		INSERT INTO timer_state (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for key, value := range values {
		if _, err := stmt.Exec(key, value); err != nil {
			return fmt.Errorf("failed to save timer state key %q: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *TimerSnapshotRepository) Load() (timer.State, bool, error) {
	rows, err := r.db.Query(`SELECT key, value FROM timer_state`)
	if err != nil {
		return timer.State{}, false, fmt.Errorf("failed to query timer state: %w", err)
	}
	defer rows.Close()

	values := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return timer.State{}, false, fmt.Errorf("failed to scan timer state: %w", err)
		}
		values[key] = value
	}
	if err := rows.Err(); err != nil {
		return timer.State{}, false, fmt.Errorf("error iterating rows: %w", err)
	}

	status, ok := values[snapStatus]
	if !ok {
		return timer.State{}, false, nil
	}

	state := timer.State{
		Status:       timer.Status(status),
		ActivityName: values[snapActivityName],
		ColorHex:     values[snapColorHex],
		SessionID:    values[snapSessionID],
	}
	if v := values[snapActivityID]; v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return timer.State{}, false, fmt.Errorf("corrupt activity id %q: %w", v, err)
		}
		state.ActivityID = id
	}
	if v := values[snapStartMillis]; v != "" {
		ms, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return timer.State{}, false, fmt.Errorf("corrupt start time %q: %w", v, err)
		}
		state.StartTime = time.UnixMilli(ms)
	}
	if v := values[snapElapsed]; v != "" {
		ms, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return timer.State{}, false, fmt.Errorf("corrupt elapsed %q: %w", v, err)
		}
		state.ElapsedMillis = ms
	}
	if v := values[snapTagIDs]; v != "" {
		for _, part := range strings.Split(v, ",") {
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return timer.State{}, false, fmt.Errorf("corrupt tag id %q: %w", part, err)
			}
			state.TagIDs = append(state.TagIDs, id)
		}
	}

	return state, true, nil
}

func (r *TimerSnapshotRepository) Clear() error {
	if _, err := r.db.Exec(`DELETE FROM timer_state`); err != nil {
		return fmt.Errorf("failed to clear timer state: %w", err)
	}
	return nil
}

func (r *TimerSnapshotRepository) HasActive() (bool, error) {
	var status string
	err := r.db.QueryRow(`SELECT value FROM timer_state WHERE key = ?`, snapStatus).Scan(&status)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read timer status: %w", err)
	}
	return status == string(timer.StatusRunning) || status == string(timer.StatusPaused), nil
}
