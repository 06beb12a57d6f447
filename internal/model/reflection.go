package model

import "time"

type Reflection struct {
	ID                  string    `db:"id" json:"-"`
	UserID              string    `db:"user_id" json:"-"`
	Date                Date      `db:"reflection_date" json:"date"`
	IntentionalityScore *int      `db:"intentionality_score" json:"intentionality_score" validate:"omitempty,gte=1,lte=10"`
	Accomplishments     string    `db:"accomplishments" json:"accomplishments" validate:"max=20000"`
	WhatWorked          string    `db:"what_worked" json:"what_worked" validate:"max=20000"`
	WhatDidntWork       string    `db:"what_didnt_work" json:"what_didnt_work" validate:"max=20000"`
	IntentionsTomorrow  string    `db:"intentions_tomorrow" json:"intentions_tomorrow" validate:"max=20000"`
	CreatedAt           time.Time `db:"created_at" json:"-"`
	UpdatedAt           time.Time `db:"updated_at" json:"updated_at"`
}
