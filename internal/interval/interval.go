// Package interval validates the time span of a logged task and infers a
// missing endpoint from the other endpoint plus a duration.
package interval

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/davidtseymour/personal-productivity-system/internal/model"
)

const (
	DateLayout = model.DateLayout
	TimeLayout = "15:04"

	// DurationWarningMinutes is the length above which an entry gets a
	// cosmetic warning. It never blocks a save.
	DurationWarningMinutes = 120
	DurationWarning        = "Warning: entry exceeds 2 hours."

	// maxHours keeps hours*60+minutes within a time.Duration.
	maxHours = int(math.MaxInt64/int64(time.Hour)) - 1
)

// Fields holds the raw form values. Empty means "not provided yet".
type Fields struct {
	StartDate string `json:"start_date"`
	StartTime string `json:"start_time"`
	EndDate   string `json:"end_date"`
	EndTime   string `json:"end_time"`
	Hours     string `json:"hours"`
	Minutes   string `json:"minutes"`
}

// Flags marks the fields that are malformed or part of a contradiction.
type Flags struct {
	StartDate bool `json:"start_date"`
	StartTime bool `json:"start_time"`
	EndDate   bool `json:"end_date"`
	EndTime   bool `json:"end_time"`
	Hours     bool `json:"hours"`
	Minutes   bool `json:"minutes"`
}

func (f Flags) Any() bool {
	return f.StartDate || f.StartTime || f.EndDate || f.EndTime || f.Hours || f.Minutes
}

// Interval is a fully resolved span. StartAt and EndAt carry no zone
// information and live in time.UTC.
type Interval struct {
	StartAt     time.Time  `json:"start_at"`
	EndAt       time.Time  `json:"end_at"`
	DurationMin int        `json:"duration_min"`
	Date        model.Date `json:"date"`
}

// Resolve validates f and, when nothing is flagged, returns the resolved
// interval. A nil interval with no flags means the input is incomplete.
func Resolve(f Fields) (Flags, *Interval) {
	var flags Flags

	if f.StartDate != "" && !validDate(f.StartDate) {
		flags.StartDate = true
	}
	if f.EndDate != "" && !validDate(f.EndDate) {
		flags.EndDate = true
	}
	if f.StartTime != "" && !validTime(f.StartTime) {
		flags.StartTime = true
	}
	if f.EndTime != "" && !validTime(f.EndTime) {
		flags.EndTime = true
	}

	hours, hasHours, ok := parseInt(f.Hours)
	if hasHours && (!ok || hours < 0 || hours > maxHours) {
		flags.Hours = true
	}
	minutes, hasMinutes, ok := parseInt(f.Minutes)
	if hasMinutes && (!ok || minutes < 0 || minutes > 59) {
		flags.Minutes = true
	}

	start, hasStart := anchor(f.StartDate, f.StartTime)
	end, hasEnd := anchor(f.EndDate, f.EndTime)

	if hasStart && hasEnd && !end.After(start) {
		// Either side could be the mistake, so all four are marked.
		flags.StartDate = true
		flags.StartTime = true
		flags.EndDate = true
		flags.EndTime = true
	}

	if hasStart && hasEnd && end.After(start) &&
		(hasHours || hasMinutes) && !flags.Hours && !flags.Minutes {
		total := minutesBetween(start, end)
		if hasHours && hours != total/60 {
			flags.Hours = true
		}
		if hasMinutes && minutes != total%60 {
			flags.Minutes = true
		}
	}

	if flags.Any() {
		return flags, nil
	}

	if hasStart && hasEnd {
		return flags, newInterval(start, end, minutesBetween(start, end))
	}

	duration := 0
	if hasHours {
		duration += hours * 60
	}
	if hasMinutes {
		duration += minutes
	}
	if duration <= 0 {
		return flags, nil
	}

	span := time.Duration(duration) * time.Minute
	switch {
	case hasStart:
		end = start.Add(span)
	case hasEnd:
		start = end.Add(-span)
	default:
		return flags, nil
	}

	// The inferred endpoint must still be a YYYY-MM-DD date.
	if !inDateRange(start) || !inDateRange(end) {
		flags.Hours = hasHours
		flags.Minutes = hasMinutes
		return flags, nil
	}
	return flags, newInterval(start, end, duration)
}

func inDateRange(t time.Time) bool {
	return t.Year() >= 1 && t.Year() <= 9999
}

// Placeholders suggests hours and zero-padded minutes from two valid,
// ordered anchors. Both strings are empty otherwise.
func Placeholders(f Fields) (string, string) {
	start, hasStart := anchor(f.StartDate, f.StartTime)
	end, hasEnd := anchor(f.EndDate, f.EndTime)
	if !hasStart || !hasEnd || !end.After(start) {
		return "", ""
	}
	total := minutesBetween(start, end)
	return strconv.Itoa(total / 60), fmt.Sprintf("%02d", total%60)
}

// Result bundles everything a form needs after a change.
type Result struct {
	Flags              Flags     `json:"invalid"`
	Interval           *Interval `json:"interval,omitempty"`
	PlaceholderHours   string    `json:"placeholder_hours"`
	PlaceholderMinutes string    `json:"placeholder_minutes"`
	Warning            string    `json:"warning,omitempty"`
}

func (r Result) Valid() bool {
	return !r.Flags.Any() && r.Interval != nil
}

func Check(f Fields) Result {
	flags, iv := Resolve(f)
	h, m := Placeholders(f)
	res := Result{
		Flags:              flags,
		Interval:           iv,
		PlaceholderHours:   h,
		PlaceholderMinutes: m,
	}
	if res.Valid() && iv.DurationMin > DurationWarningMinutes {
		res.Warning = DurationWarning
	}
	return res
}

// FromTask returns the form values that reproduce a stored task.
func FromTask(startAt, endAt time.Time, durationMin int) Fields {
	return Fields{
		StartDate: startAt.Format(DateLayout),
		StartTime: startAt.Format(TimeLayout),
		EndDate:   endAt.Format(DateLayout),
		EndTime:   endAt.Format(TimeLayout),
		Hours:     strconv.Itoa(durationMin / 60),
		Minutes:   fmt.Sprintf("%02d", durationMin%60),
	}
}

func newInterval(start, end time.Time, duration int) *Interval {
	return &Interval{
		StartAt:     start,
		EndAt:       end,
		DurationMin: duration,
		Date:        model.DateOf(start),
	}
}

func minutesBetween(start, end time.Time) int {
	return int(end.Sub(start) / time.Minute)
}

func validDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

func validTime(s string) bool {
	_, err := time.Parse(TimeLayout, s)
	return err == nil
}

func anchor(date, clock string) (time.Time, bool) {
	if date == "" || clock == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(DateLayout+" "+TimeLayout, date+" "+clock, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// parseInt reports the value, whether s was provided, and whether it parsed.
func parseInt(s string) (int, bool, bool) {
	if s == "" {
		return 0, false, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, true, false
	}
	return n, true, true
}
