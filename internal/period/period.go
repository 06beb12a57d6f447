// Package period maps a goal horizon and an offset from the current period
// to the first calendar day of that period.
package period

import (
	"errors"
	"time"
	_ "time/tzdata"

	"github.com/davidtseymour/personal-productivity-system/internal/model"
)

var (
	ErrInvalidHorizon   = errors.New("invalid horizon")
	ErrInvalidWeekStart = errors.New("week start must be between 0 (Monday) and 6 (Sunday)")
)

// Clock returns the current instant.
type Clock func() time.Time

// Start returns the first day of the period offset periods away from the
// one containing ref, as seen in loc. weekStart is 0 for Monday through 6
// for Sunday.
func Start(h model.Horizon, offset int, loc *time.Location, weekStart int, ref time.Time) (model.Date, error) {
	if weekStart < 0 || weekStart > 6 {
		return model.Date{}, ErrInvalidWeekStart
	}
	if loc == nil {
		loc = time.UTC
	}
	today := model.DateOf(ref.In(loc))

	switch h {
	case model.HorizonWeek:
		// time.Weekday counts from Sunday; shift so Monday is 0.
		weekday := (int(today.Time().Weekday()) + 6) % 7
		back := (weekday - weekStart + 7) % 7
		return today.AddDays(-back + 7*offset), nil
	case model.HorizonMonth:
		return addMonths(today.Year, today.Month, offset), nil
	case model.HorizonQuarter:
		first := time.Month((int(today.Month)-1)/3*3 + 1)
		return addMonths(today.Year, first, 3*offset), nil
	}
	return model.Date{}, ErrInvalidHorizon
}

// addMonths returns the first day of the month n months after year/month.
func addMonths(year int, month time.Month, n int) model.Date {
	return model.DateOf(time.Date(year, month+time.Month(n), 1, 0, 0, 0, 0, time.UTC))
}

// Resolver carries the configured zone and week start.
type Resolver struct {
	Location  *time.Location
	WeekStart int
	Now       Clock
}

func NewResolver(loc *time.Location, weekStart int) *Resolver {
	return &Resolver{Location: loc, WeekStart: weekStart, Now: time.Now}
}

func (r *Resolver) Start(h model.Horizon, offset int) (model.Date, error) {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	return Start(h, offset, r.Location, r.WeekStart, now())
}

// Today is the current calendar day in the resolver's zone.
func (r *Resolver) Today() model.Date {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	loc := r.Location
	if loc == nil {
		loc = time.UTC
	}
	return model.DateOf(now().In(loc))
}
