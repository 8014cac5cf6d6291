package models

import "time"

// TimeEntry is a recorded interval of activity. DurationMinutes is a
// cached value maintained alongside the bounds; constructors must keep it
// consistent. Entries are never mutated in place — structural operations
// (split, merge) create new entries and delete the originals.
type TimeEntry struct {
	ID              int64      `json:"id"`
	ActivityID      int64      `json:"activity_id"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         time.Time  `json:"end_time"`
	DurationMinutes int64      `json:"duration_minutes"`
	Note            *string    `json:"note,omitempty"`
	TagIDs          []int64    `json:"tag_ids"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type CreateEntryRequest struct {
	ActivityID      int64     `json:"activity_id"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DurationMinutes int64     `json:"duration_minutes"`
	Note            *string   `json:"note,omitempty"`
	TagIDs          []int64   `json:"tag_ids,omitempty"`
}

type UpdateEntryRequest struct {
	ActivityID      *int64     `json:"activity_id,omitempty"`
	StartTime       *time.Time `json:"start_time,omitempty"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	DurationMinutes *int64     `json:"duration_minutes,omitempty"`
	Note            *string    `json:"note,omitempty"`
	TagIDs          []int64    `json:"tag_ids,omitempty"`
}
