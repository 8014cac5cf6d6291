package models

import "time"

// Activity is a category of work that entries are logged against.
type Activity struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	ColorHex  string    `json:"color_hex"`
	CreatedAt time.Time `json:"created_at"`
}

// Tag is a free-form label attached to entries and targeted by goals.
type Tag struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
