package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidtseymour/personal-productivity-system/internal/model"
)

func newYork(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return loc
}

func TestStartWeek(t *testing.T) {
	loc := newYork(t)
	// Wednesday
	ref := time.Date(2025, time.May, 14, 15, 0, 0, 0, loc)

	tests := []struct {
		name      string
		offset    int
		weekStart int
		want      model.Date
	}{
		{"current week from monday", 0, 0, model.NewDate(2025, time.May, 12)},
		{"previous week from monday", -1, 0, model.NewDate(2025, time.May, 5)},
		{"next week from monday", 1, 0, model.NewDate(2025, time.May, 19)},
		{"current week from sunday", 0, 6, model.NewDate(2025, time.May, 11)},
		{"week starting today", 0, 2, model.NewDate(2025, time.May, 14)},
		{"week starting tomorrow", 0, 3, model.NewDate(2025, time.May, 8)},
		{"across a year", -20, 0, model.NewDate(2024, time.December, 23)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Start(model.HorizonWeek, tt.offset, loc, tt.weekStart, ref)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStartMonth(t *testing.T) {
	loc := newYork(t)
	ref := time.Date(2025, time.January, 31, 12, 0, 0, 0, loc)

	tests := []struct {
		offset int
		want   model.Date
	}{
		{0, model.NewDate(2025, time.January, 1)},
		{1, model.NewDate(2025, time.February, 1)},
		{-1, model.NewDate(2024, time.December, 1)},
		{-13, model.NewDate(2023, time.December, 1)},
		{12, model.NewDate(2026, time.January, 1)},
	}
	for _, tt := range tests {
		got, err := Start(model.HorizonMonth, tt.offset, loc, 0, ref)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "offset %d", tt.offset)
	}
}

func TestStartQuarter(t *testing.T) {
	loc := newYork(t)
	ref := time.Date(2025, time.May, 20, 9, 0, 0, 0, loc)

	tests := []struct {
		offset int
		want   model.Date
	}{
		{0, model.NewDate(2025, time.April, 1)},
		{1, model.NewDate(2025, time.July, 1)},
		{-1, model.NewDate(2025, time.January, 1)},
		{-2, model.NewDate(2024, time.October, 1)},
		{3, model.NewDate(2026, time.January, 1)},
	}
	for _, tt := range tests {
		got, err := Start(model.HorizonQuarter, tt.offset, loc, 0, ref)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "offset %d", tt.offset)
	}
}

func TestStartUsesLocation(t *testing.T) {
	loc := newYork(t)
	// 02:00 UTC on the 1st is still the previous evening in New York.
	ref := time.Date(2025, time.July, 1, 2, 0, 0, 0, time.UTC)

	got, err := Start(model.HorizonMonth, 0, loc, 0, ref)
	require.NoError(t, err)
	assert.Equal(t, model.NewDate(2025, time.June, 1), got)

	got, err = Start(model.HorizonMonth, 0, time.UTC, 0, ref)
	require.NoError(t, err)
	assert.Equal(t, model.NewDate(2025, time.July, 1), got)
}

func TestStartErrors(t *testing.T) {
	ref := time.Date(2025, time.May, 14, 0, 0, 0, 0, time.UTC)

	_, err := Start(model.Horizon("YEAR"), 0, time.UTC, 0, ref)
	assert.ErrorIs(t, err, ErrInvalidHorizon)

	_, err = Start(model.HorizonWeek, 0, time.UTC, 7, ref)
	assert.ErrorIs(t, err, ErrInvalidWeekStart)

	_, err = Start(model.HorizonWeek, 0, time.UTC, -1, ref)
	assert.ErrorIs(t, err, ErrInvalidWeekStart)
}

func TestStartDeterministic(t *testing.T) {
	loc := newYork(t)
	ref := time.Date(2025, time.November, 2, 1, 30, 0, 0, loc)
	for _, h := range model.Horizons {
		a, err := Start(h, -1, loc, 0, ref)
		require.NoError(t, err)
		b, err := Start(h, -1, loc, 0, ref)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	}
}

func TestResolver(t *testing.T) {
	loc := newYork(t)
	r := NewResolver(loc, 0)
	r.Now = func() time.Time { return time.Date(2025, time.May, 14, 3, 0, 0, 0, time.UTC) }

	got, err := r.Start(model.HorizonWeek, 0)
	require.NoError(t, err)
	assert.Equal(t, model.NewDate(2025, time.May, 12), got)
	assert.Equal(t, model.NewDate(2025, time.May, 13), r.Today())
}
