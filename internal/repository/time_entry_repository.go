package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/timekeep/timekeep/internal/models"
)

type TimeEntryRepository struct {
	db *sql.DB
}

func NewTimeEntryRepository(db *sql.DB) *TimeEntryRepository {
	return &TimeEntryRepository{db: db}
}

func (r *TimeEntryRepository) Create(req *models.CreateEntryRequest) (*models.TimeEntry, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO time_entries (activity_id, start_time, end_time, duration_minutes, note)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id, created_at, updated_at
	`

	var id int64
	var createdAt, updatedAt time.Time
	err = tx.QueryRow(
		query,
		req.ActivityID,
		req.StartTime,
		req.EndTime,
		req.DurationMinutes,
		req.Note,
	).Scan(&id, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create time entry: %w", err)
	}

	for _, tagID := range req.TagIDs {
		if _, err := tx.Exec(
			`INSERT OR IGNORE INTO entry_tags (entry_id, tag_id) VALUES (?, ?)`,
			id, tagID,
		); err != nil {
			return nil, fmt.Errorf("failed to attach tag: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.TimeEntry{
		ID:              id,
		ActivityID:      req.ActivityID,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		DurationMinutes: req.DurationMinutes,
		Note:            req.Note,
		TagIDs:          append([]int64(nil), req.TagIDs...),
		CreatedAt:       createdAt,
		UpdatedAt:       updatedAt,
	}, nil
}

func (r *TimeEntryRepository) GetByID(id int64) (*models.TimeEntry, error) {
	query := `
		SELECT id, activity_id, start_time, end_time, duration_minutes, note, created_at, updated_at
		FROM time_entries
		WHERE id = ?
	`

	var entry models.TimeEntry
	err := r.db.QueryRow(query, id).Scan(
		&entry.ID,
		&entry.ActivityID,
		&entry.StartTime,
		&entry.EndTime,
		&entry.DurationMinutes,
		&entry.Note,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("time entry %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get time entry: %w", err)
	}

	if err := r.loadTags(&entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// GetInRange returns entries whose interval overlaps [start, end),
// ascending by start time. Entries merely touching a bound are
// excluded, matching half-open overlap.
func (r *TimeEntryRepository) GetInRange(start, end time.Time) ([]*models.TimeEntry, error) {
	query := `
		SELECT id, activity_id, start_time, end_time, duration_minutes, note, created_at, updated_at
		FROM time_entries
		WHERE start_time < ? AND end_time > ?
		ORDER BY start_time ASC
	`
	return r.queryEntries(query, end, start)
}

func (r *TimeEntryRepository) GetByActivity(activityID int64) ([]*models.TimeEntry, error) {
	query := `
		SELECT id, activity_id, start_time, end_time, duration_minutes, note, created_at, updated_at
		FROM time_entries
		WHERE activity_id = ?
		ORDER BY start_time ASC
	`
	return r.queryEntries(query, activityID)
}

// HasOverlapping reports whether any entry other than excludeID
// overlaps [start, end). Pass excludeID 0 to consider all entries.
func (r *TimeEntryRepository) HasOverlapping(start, end time.Time, excludeID int64) (bool, error) {
	var count int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM time_entries
		WHERE start_time < ? AND end_time > ? AND id != ?
	`, end, start, excludeID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check overlapping entries: %w", err)
	}
	return count > 0, nil
}

func (r *TimeEntryRepository) Update(id int64, req *models.UpdateEntryRequest) (*models.TimeEntry, error) {
	current, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}

	setParts := []string{"updated_at = CURRENT_TIMESTAMP"}
	args := []interface{}{}

	if req.ActivityID != nil {
		setParts = append(setParts, "activity_id = ?")
		args = append(args, *req.ActivityID)
	}
	if req.StartTime != nil {
		setParts = append(setParts, "start_time = ?")
		args = append(args, *req.StartTime)
	}
	if req.EndTime != nil {
		setParts = append(setParts, "end_time = ?")
		args = append(args, *req.EndTime)
	}
	if req.DurationMinutes != nil {
		setParts = append(setParts, "duration_minutes = ?")
		args = append(args, *req.DurationMinutes)
	}
	if req.Note != nil {
		setParts = append(setParts, "note = ?")
		args = append(args, *req.Note)
	}

	if len(setParts) > 1 {
		setClause := setParts[0]
		for i := 1; i < len(setParts); i++ {
			setClause += ", " + setParts[i]
		}

		query := fmt.Sprintf(`UPDATE time_entries SET %s WHERE id = ?`, setClause)
		args = append(args, id)

		result, err := r.db.Exec(query, args...)
		if err != nil {
			return nil, fmt.Errorf("failed to update time entry: %w", err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return nil, fmt.Errorf("time entry %d: %w", id, ErrNotFound)
		}
	}

	if req.TagIDs != nil {
		if err := r.replaceTags(id, req.TagIDs); err != nil {
			return nil, err
		}
	}

	if len(setParts) == 1 && req.TagIDs == nil {
		return current, nil
	}
	return r.GetByID(id)
}

func (r *TimeEntryRepository) Delete(id int64) error {
	result, err := r.db.Exec("DELETE FROM time_entries WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete time entry: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("time entry %d: %w", id, ErrNotFound)
	}
	return nil
}

func (r *TimeEntryRepository) queryEntries(query string, args ...interface{}) ([]*models.TimeEntry, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query time entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.TimeEntry
	for rows.Next() {
		var entry models.TimeEntry
		err := rows.Scan(
			&entry.ID,
			&entry.ActivityID,
			&entry.StartTime,
			&entry.EndTime,
			&entry.DurationMinutes,
			&entry.Note,
			&entry.CreatedAt,
			&entry.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan time entry: %w", err)
		}
		entries = append(entries, &entry)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	for _, entry := range entries {
		if err := r.loadTags(entry); err != nil {
			return nil, err
		}
	}
	return entries, nil
}

func (r *TimeEntryRepository) loadTags(entry *models.TimeEntry) error {
	rows, err := r.db.Query(
		`SELECT tag_id FROM entry_tags WHERE entry_id = ? ORDER BY tag_id`,
		entry.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to query entry tags: %w", err)
	}
	defer rows.Close()

	entry.TagIDs = nil
	for rows.Next() {
		var tagID int64
		if err := rows.Scan(&tagID); err != nil {
			return fmt.Errorf("failed to scan entry tag: %w", err)
		}
		entry.TagIDs = append(entry.TagIDs, tagID)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating entry tags: %w", err)
	}
	return nil
}

func (r *TimeEntryRepository) replaceTags(entryID int64, tagIDs []int64) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM entry_tags WHERE entry_id = ?`, entryID); err != nil {
		return fmt.Errorf("failed to clear entry tags: %w", err)
	}
	for _, tagID := range tagIDs {
		if _, err := tx.Exec(
			`INSERT OR IGNORE INTO entry_tags (entry_id, tag_id) VALUES (?, ?)`,
			entryID, tagID,
		); err != nil {
			return fmt.Errorf("failed to attach tag: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
