package model

import (
	"time"
)

type User struct {
	ID          string    `db:"id" json:"id"`
	Username    string    `db:"username" json:"username"`
	DisplayName string    `db:"display_name" json:"display_name"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// DefaultCategories are created for every new user, in display order.
var DefaultCategories = []string{
	"Work",
	"School",
	"Health",
	"Activities",
	"Chores",
	"Social",
	"Screen",
	"Sleep",
}
