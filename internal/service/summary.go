package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/davidtseymour/personal-productivity-system/internal/model"
	"github.com/davidtseymour/personal-productivity-system/internal/repository"
)

const (
	SummaryEmpty        = "empty"
	SummaryNoProductive = "no_productive"
	SummaryOK           = "ok"

	DefaultSummaryDays = 7
	MaxSummaryDays     = 366
)

// contextCategories are reported next to the productive time, never in it.
var contextCategories = []string{model.CategoryScreen, model.CategorySleep}

func isContextCategory(name string) bool {
	for _, c := range contextCategories {
		if strings.EqualFold(c, name) {
			return true
		}
	}
	return false
}

type CategoryTotal struct {
	Category string `json:"category"`
	Minutes  int    `json:"minutes"`
}

type SubcategoryTotal struct {
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	Minutes     int    `json:"minutes"`
}

type DaySummary struct {
	Date          model.Date         `json:"date"`
	Status        string             `json:"status"`
	Rows          []CategoryTotal    `json:"rows"`
	Subcategories []SubcategoryTotal `json:"subcategories"`
	Total         int                `json:"total"`
	ScreenMinutes *int               `json:"screen_minutes"`
	SleepMinutes  *int               `json:"sleep_minutes"`
}

// WeekRow is one line of the week table: a value per day plus the average.
type WeekRow struct {
	Name    string    `json:"name"`
	Values  []float64 `json:"values"`
	Average float64   `json:"average"`
}

type WeekSummary struct {
	Start      model.Date   `json:"start"`
	End        model.Date   `json:"end"`
	Days       []model.Date `json:"days"`
	Categories []WeekRow    `json:"categories"`
	Context    []WeekRow    `json:"context"`
	Totals     WeekRow      `json:"totals"`
	Metrics    []WeekRow    `json:"metrics"`
}

type SummaryService struct {
	repo repository.SummaryRepository
}

func NewSummaryService(repo repository.SummaryRepository) *SummaryService {
	return &SummaryService{repo: repo}
}

// Day totals the minutes per category for date. Screen and Sleep are
// reported separately and are not part of Total.
func (s *SummaryService) Day(ctx context.Context, userID string, date model.Date) (*DaySummary, error) {
	rows, err := s.repo.CategoryMinutes(ctx, userID, date, date.AddDays(1))
	if err != nil {
		return nil, fmt.Errorf("failed to load day summary: %w", err)
	}

	summary := &DaySummary{
		Date:          date,
		Status:        SummaryEmpty,
		Rows:          []CategoryTotal{},
		Subcategories: []SubcategoryTotal{},
	}
	if len(rows) == 0 {
		return summary, nil
	}

	// rows arrive in category sort order
	var order []string
	byCategory := map[string]float64{}
	for _, row := range rows {
		name := categoryLabel(row)
		if _, ok := byCategory[name]; !ok {
			order = append(order, name)
		}
		byCategory[name] += row.Minutes

		if !strings.EqualFold(name, model.CategorySleep) {
			summary.Subcategories = append(summary.Subcategories, SubcategoryTotal{
				Category:    name,
				Subcategory: row.Subcategory,
				Minutes:     roundMinutes(row.Minutes),
			})
		}
	}

	sort.SliceStable(summary.Subcategories, func(i, j int) bool {
		a, b := summary.Subcategories[i], summary.Subcategories[j]
		if a.Minutes != b.Minutes {
			return a.Minutes > b.Minutes
		}
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		return a.Subcategory < b.Subcategory
	})

	for _, name := range order {
		minutes := roundMinutes(byCategory[name])
		switch {
		case strings.EqualFold(name, model.CategoryScreen):
			summary.ScreenMinutes = &minutes
		case strings.EqualFold(name, model.CategorySleep):
			summary.SleepMinutes = &minutes
		default:
			summary.Rows = append(summary.Rows, CategoryTotal{Category: name, Minutes: minutes})
			summary.Total += minutes
		}
	}

	if len(summary.Rows) == 0 {
		summary.Status = SummaryNoProductive
	} else {
		summary.Status = SummaryOK
	}

	return summary, nil
}

// Week builds the per-day table for the days before end, end excluded.
func (s *SummaryService) Week(ctx context.Context, userID string, end model.Date, days int) (*WeekSummary, error) {
	if days <= 0 {
		days = DefaultSummaryDays
	}
	if days > MaxSummaryDays {
		days = MaxSummaryDays
	}

	start := end.AddDays(-days)
	summary := &WeekSummary{
		Start:      start,
		End:        end,
		Days:       make([]model.Date, days),
		Categories: []WeekRow{},
		Context:    []WeekRow{},
		Metrics:    []WeekRow{},
	}
	index := make(map[model.Date]int, days)
	for i := range days {
		d := start.AddDays(i)
		summary.Days[i] = d
		index[d] = i
	}

	rows, err := s.repo.CategoryMinutes(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load week summary: %w", err)
	}

	categories := newRowSet(days)
	contexts := newRowSet(days)
	totals := make([]float64, days)
	for _, row := range rows {
		i, ok := index[row.Date]
		if !ok {
			continue
		}
		name := categoryLabel(row)
		if isContextCategory(name) {
			contexts.add(name, i, row.Minutes)
			continue
		}
		categories.add(name, i, row.Minutes)
		totals[i] += row.Minutes
	}

	metrics, err := s.repo.MetricTotals(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load week metrics: %w", err)
	}

	metricRows := newRowSet(days)
	for _, m := range metrics {
		if i, ok := index[m.Date]; ok {
			metricRows.add(m.DisplayName, i, m.Value)
		}
	}

	summary.Categories = categories.rows(roundMinutesFloat)
	summary.Context = contexts.ordered(contextCategories, roundMinutesFloat)
	summary.Metrics = metricRows.rows(nil)
	summary.Totals = newWeekRow("Total", totals, roundMinutesFloat)

	return summary, nil
}

type rowSet struct {
	days   int
	order  []string
	values map[string][]float64
}

func newRowSet(days int) *rowSet {
	return &rowSet{days: days, values: map[string][]float64{}}
}

func (rs *rowSet) add(name string, day int, v float64) {
	if _, ok := rs.values[name]; !ok {
		rs.order = append(rs.order, name)
		rs.values[name] = make([]float64, rs.days)
	}
	rs.values[name][day] += v
}

func (rs *rowSet) rows(round func(float64) float64) []WeekRow {
	out := make([]WeekRow, 0, len(rs.order))
	for _, name := range rs.order {
		out = append(out, newWeekRow(name, rs.values[name], round))
	}
	return out
}

// ordered returns the rows named in names, in that order, matching names
// case-insensitively.
func (rs *rowSet) ordered(names []string, round func(float64) float64) []WeekRow {
	out := []WeekRow{}
	for _, want := range names {
		for _, name := range rs.order {
			if strings.EqualFold(name, want) {
				out = append(out, newWeekRow(name, rs.values[name], round))
			}
		}
	}
	return out
}

func newWeekRow(name string, values []float64, round func(float64) float64) WeekRow {
	row := WeekRow{Name: name, Values: make([]float64, len(values))}
	var sum float64
	for i, v := range values {
		if round != nil {
			v = round(v)
		}
		row.Values[i] = v
		sum += v
	}
	if len(values) > 0 {
		row.Average = math.Round(sum/float64(len(values))*10) / 10
	}
	return row
}

func categoryLabel(row *model.CategoryMinutes) string {
	if row.CategoryName != "" {
		return row.CategoryName
	}
	return row.CategoryID
}

func roundMinutes(v float64) int {
	return int(math.Round(v))
}

func roundMinutesFloat(v float64) float64 {
	return math.Round(v)
}

// FormatHM renders minutes as "1h 5m", or "45m" under an hour.
func FormatHM(minutes float64) string {
	m := roundMinutes(minutes)
	if m >= 60 {
		return fmt.Sprintf("%dh %dm", m/60, m%60)
	}
	return fmt.Sprintf("%dm", m)
}

// FormatHHMM renders minutes as "1:05".
func FormatHHMM(minutes float64) string {
	m := roundMinutes(minutes)
	return fmt.Sprintf("%d:%02d", m/60, m%60)
}
