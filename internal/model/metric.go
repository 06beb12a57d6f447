package model

import "time"

type MetricDefinition struct {
	Key             string   `db:"metric_key" json:"key"`
	UserID          string   `db:"user_id" json:"-"`
	DisplayName     string   `db:"display_name" json:"display_name"`
	IsDuration      bool     `db:"is_duration" json:"is_duration"`
	SortOrder       int      `db:"sort_order" json:"sort_order"`
	CategoryID      *string  `db:"category_id" json:"category_id,omitempty"`
	Subcategory     *string  `db:"subcategory" json:"subcategory,omitempty"`
	ToMinutesFactor *float64 `db:"to_minutes_factor" json:"to_minutes_factor,omitempty"`
}

type MetricValue struct {
	UserID    string    `db:"user_id" json:"-"`
	Date      Date      `db:"date" json:"date"`
	Key       string    `db:"metric_key" json:"key"`
	Value     float64   `db:"value_num" json:"value"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
