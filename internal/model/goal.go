package model

import (
	"fmt"
	"strings"
	"time"
)

// Horizon is the granularity a goal set covers.
type Horizon string

const (
	HorizonWeek    Horizon = "WEEK"
	HorizonMonth   Horizon = "MONTH"
	HorizonQuarter Horizon = "QTR"
)

var Horizons = []Horizon{HorizonWeek, HorizonMonth, HorizonQuarter}

func (h Horizon) Valid() bool {
	switch h {
	case HorizonWeek, HorizonMonth, HorizonQuarter:
		return true
	}
	return false
}

// ParseHorizon accepts the horizon name in any case.
func ParseHorizon(s string) (Horizon, error) {
	h := Horizon(strings.ToUpper(strings.TrimSpace(s)))
	if !h.Valid() {
		return "", fmt.Errorf("unknown horizon %q", s)
	}
	return h, nil
}

type GoalTheme struct {
	ID         string     `db:"id" json:"id"`
	UserID     string     `db:"user_id" json:"-"`
	Name       string     `db:"name" json:"name"`
	NameNorm   string     `db:"name_norm" json:"-"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	ArchivedAt *time.Time `db:"archived_at" json:"archived_at,omitempty"`
}

type GoalSet struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"-"`
	Horizon     Horizon   `db:"horizon" json:"horizon"`
	PeriodStart Date      `db:"period_start" json:"period_start"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// GoalSetItem is one revision of a theme's goal text within a goal set.
type GoalSetItem struct {
	GoalSetID   string    `db:"goal_set_id" json:"goal_set_id"`
	GoalThemeID string    `db:"goal_theme_id" json:"goal_theme_id"`
	RevisionNo  int       `db:"revision_no" json:"revision_no"`
	DetailText  string    `db:"detail_text" json:"detail_text"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
