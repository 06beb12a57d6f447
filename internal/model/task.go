package model

import (
	"time"
)

// Task is a logged time entry. StartAt and EndAt are wall-clock times
// without a zone; they are kept in time.UTC so they round-trip unchanged.
type Task struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"-"`
	Date        Date      `db:"date" json:"date"`
	StartAt     time.Time `db:"start_at" json:"start_at"`
	EndAt       time.Time `db:"end_at" json:"end_at"`
	DurationMin int       `db:"duration_min" json:"duration_min"`
	CategoryID  string    `db:"category_id" json:"category_id"`
	Subcategory string    `db:"subcategory" json:"subcategory"`
	Activity    string    `db:"activity" json:"activity"`
	Notes       string    `db:"notes" json:"notes"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`

	// Joined for listings (not a column of tasks)
	CategoryName string `db:"category_name" json:"category_name,omitempty"`
}
