package model

import "time"

type Category struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"-"`
	Name      string    `db:"name" json:"name"`
	NameNorm  string    `db:"name_norm" json:"-"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	SortOrder int       `db:"sort_order" json:"sort_order"`
	CreatedAt time.Time `db:"created_at" json:"-"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`
}

// Context categories are shown next to the productive totals, not inside them.
const (
	CategoryScreen = "Screen"
	CategorySleep  = "Sleep"
)
