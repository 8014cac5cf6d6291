package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/timekeep/timekeep/internal/models"
)

type ActivityRepository struct {
	db *sql.DB
}

func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Create(name, colorHex string) (*models.Activity, error) {
	var activity models.Activity
	err := r.db.QueryRow(`
		INSERT INTO activities (name, color_hex)
		VALUES (?, ?)
		RETURNING id, name, color_hex, created_at
	`, name, colorHex).Scan(&activity.ID, &activity.Name, &activity.ColorHex, &activity.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create activity: %w", err)
	}
	return &activity, nil
}

func (r *ActivityRepository) GetByID(id int64) (*models.Activity, error) {
	var activity models.Activity
	err := r.db.QueryRow(`
		SELECT id, name, color_hex, created_at FROM activities WHERE id = ?
	`, id).Scan(&activity.ID, &activity.Name, &activity.ColorHex, &activity.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("activity %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}
	return &activity, nil
}

func (r *ActivityRepository) List() ([]*models.Activity, error) {
	rows, err := r.db.Query(`SELECT id, name, color_hex, created_at FROM activities ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query activities: %w", err)
	}
	defer rows.Close()

	var activities []*models.Activity
	for rows.Next() {
		var activity models.Activity
		if err := rows.Scan(&activity.ID, &activity.Name, &activity.ColorHex, &activity.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		activities = append(activities, &activity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return activities, nil
}
