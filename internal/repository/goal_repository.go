package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/timekeep/timekeep/internal/models"
)

type GoalRepository struct {
	db *sql.DB
}

func NewGoalRepository(db *sql.DB) *GoalRepository {
	return &GoalRepository{db: db}
}

func (r *GoalRepository) Create(req *models.CreateGoalRequest) (*models.Goal, error) {
	var goal models.Goal
	err := r.db.QueryRow(`
		INSERT INTO goals (tag_id, target_minutes, goal_type, period, start_date, end_date, is_active)
		VALUES (?, ?, ?, ?, ?, ?, 1)
		RETURNING id, tag_id, target_minutes, goal_type, period, start_date, end_date, is_active, created_at
	`, req.TagID, req.TargetMinutes, req.Type, req.Period, req.StartDate, req.EndDate).Scan(
		&goal.ID,
		&goal.TagID,
		&goal.TargetMinutes,
		&goal.Type,
		&goal.Period,
		&goal.StartDate,
		&goal.EndDate,
		&goal.IsActive,
		&goal.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}
	return &goal, nil
}

func (r *GoalRepository) GetByID(id int64) (*models.Goal, error) {
	var goal models.Goal
	err := r.db.QueryRow(`
		SELECT id, tag_id, target_minutes, goal_type, period, start_date, end_date, is_active, created_at
		FROM goals WHERE id = ?
	`, id).Scan(
		&goal.ID,
		&goal.TagID,
		&goal.TargetMinutes,
		&goal.Type,
		&goal.Period,
		&goal.StartDate,
		&goal.EndDate,
		&goal.IsActive,
		&goal.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("goal %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}
	return &goal, nil
}

func (r *GoalRepository) Update(id int64, req *models.UpdateGoalRequest) (*models.Goal, error) {
	setParts := []string{}
	args := []interface{}{}

	if req.TargetMinutes != nil {
		setParts = append(setParts, "target_minutes = ?")
		args = append(args, *req.TargetMinutes)
	}
	if req.Type != nil {
		setParts = append(setParts, "goal_type = ?")
		args = append(args, *req.Type)
	}
	if req.Period != nil {
		setParts = append(setParts, "period = ?")
		args = append(args, *req.Period)
	}
	if req.StartDate != nil {
		setParts = append(setParts, "start_date = ?")
		args = append(args, *req.StartDate)
	}
	if req.EndDate != nil {
		setParts = append(setParts, "end_date = ?")
		args = append(args, *req.EndDate)
	}

	if len(setParts) == 0 {
		return r.GetByID(id)
	}

	setClause := setParts[0]
	for i := 1; i < len(setParts); i++ {
		setClause += ", " + setParts[i]
	}

	query := fmt.Sprintf(`UPDATE goals SET %s WHERE id = ?`, setClause)
	args = append(args, id)

	result, err := r.db.Exec(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update goal: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("goal %d: %w", id, ErrNotFound)
	}
	return r.GetByID(id)
}

// SetActive flips the archive state. The idempotency guards (can't
// archive twice, one active goal per tag) live in the service layer.
func (r *GoalRepository) SetActive(id int64, active bool) error {
	result, err := r.db.Exec(`UPDATE goals SET is_active = ? WHERE id = ?`, active, id)
	if err != nil {
		return fmt.Errorf("failed to set goal active state: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("goal %d: %w", id, ErrNotFound)
	}
	return nil
}

func (r *GoalRepository) Delete(id int64) error {
	result, err := r.db.Exec(`DELETE FROM goals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("goal %d: %w", id, ErrNotFound)
	}
	return nil
}

func (r *GoalRepository) List(activeOnly bool) ([]*models.Goal, error) {
	query := `
		SELECT id, tag_id, target_minutes, goal_type, period, start_date, end_date, is_active, created_at
		FROM goals
	`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY id`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query goals: %w", err)
	}
	defer rows.Close()

	var goals []*models.Goal
	for rows.Next() {
		var goal models.Goal
		err := rows.Scan(
			&goal.ID,
			&goal.TagID,
			&goal.TargetMinutes,
			&goal.Type,
			&goal.Period,
			&goal.StartDate,
			&goal.EndDate,
			&goal.IsActive,
			&goal.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, &goal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return goals, nil
}

// HasActiveForTag reports whether the tag already has an active goal
// other than excludeID.
func (r *GoalRepository) HasActiveForTag(tagID, excludeID int64) (bool, error) {
	var count int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM goals WHERE tag_id = ? AND is_active = 1 AND id != ?
	`, tagID, excludeID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check active goals for tag: %w", err)
	}
	return count > 0, nil
}
