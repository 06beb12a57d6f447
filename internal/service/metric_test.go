package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidtseymour/personal-productivity-system/internal/model"
	"github.com/davidtseymour/personal-productivity-system/internal/repository"
	"github.com/davidtseymour/personal-productivity-system/internal/testutil"
	"github.com/davidtseymour/personal-productivity-system/internal/validation"
)

func newMetricService(t *testing.T) (*MetricService, string) {
	t.Helper()
	conn := testutil.NewDB(t)
	userID := testutil.CreateUser(t, conn, "alice")
	testutil.DefineMetric(t, conn, userID, "steps", false, 1, nil, nil)
	testutil.DefineMetric(t, conn, userID, "screen_time", true, 0, nil, nil)
	return NewMetricService(repository.NewMetricRepository(conn)), userID
}

func TestMetricSave(t *testing.T) {
	svc, userID := newMetricService(t)
	ctx := context.Background()
	day := model.NewDate(2025, time.May, 14)

	event, err := svc.Save(ctx, userID, day, map[string]string{
		"steps":       "8500",
		"screen_time": "2:15",
	})
	require.NoError(t, err)
	assert.Equal(t, "metrics", event.Entity)

	values, err := svc.ValuesForDate(ctx, userID, day)
	require.NoError(t, err)
	require.Len(t, values, 2)
	assert.Equal(t, "screen_time", values[0].Key)
	assert.Equal(t, 135.0, values[0].Value)
	assert.Equal(t, 8500.0, values[1].Value)

	form, err := svc.FormValues(ctx, userID, day)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"steps": "8500", "screen_time": "2:15"}, form)

	form, err = svc.FormValues(ctx, userID, day.AddDays(1))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"steps": "", "screen_time": ""}, form)
}

func TestMetricSaveSkipsEmptyAndOverwrites(t *testing.T) {
	svc, userID := newMetricService(t)
	ctx := context.Background()
	day := model.NewDate(2025, time.May, 14)

	_, err := svc.Save(ctx, userID, day, map[string]string{"steps": "100"})
	require.NoError(t, err)
	_, err = svc.Save(ctx, userID, day, map[string]string{"steps": "200", "screen_time": " "})
	require.NoError(t, err)

	values, err := svc.ValuesForDate(ctx, userID, day)
	require.NoError(t, err)
	require.Len(t, values, 1)
	assert.Equal(t, 200.0, values[0].Value)

	_, err = svc.Clear(ctx, userID, day, "steps")
	require.NoError(t, err)
	values, err = svc.ValuesForDate(ctx, userID, day)
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestMetricSaveRejectsInvalid(t *testing.T) {
	svc, userID := newMetricService(t)
	ctx := context.Background()
	day := model.NewDate(2025, time.May, 14)

	_, err := svc.Save(ctx, userID, day, map[string]string{
		"steps":       "-3",
		"screen_time": "1:75",
		"mood":        "5",
	})
	require.ErrorIs(t, err, ErrInvalidMetricValue)
	assert.ErrorIs(t, err, validation.ErrMetricNegative)
	assert.ErrorIs(t, err, validation.ErrMetricDuration)
	assert.Contains(t, err.Error(), "mood")

	values, err := svc.ValuesForDate(ctx, userID, day)
	require.NoError(t, err)
	assert.Empty(t, values, "nothing is written when any value is invalid")
}

func TestMetricDefine(t *testing.T) {
	svc, userID := newMetricService(t)
	ctx := context.Background()

	err := svc.Define(ctx, &model.MetricDefinition{UserID: userID, Key: "water", DisplayName: "  Water  glasses"})
	require.NoError(t, err)

	defs, err := svc.Definitions(ctx, userID)
	require.NoError(t, err)
	require.Len(t, defs, 3)
	assert.Equal(t, "Water glasses", defs[0].DisplayName)

	err = svc.Define(ctx, &model.MetricDefinition{UserID: userID, Key: " "})
	assert.ErrorIs(t, err, ErrInvalidMetric)

	err = svc.Define(ctx, &model.MetricDefinition{UserID: userID, Key: "x", ToMinutesFactor: testutil.Ptr(-1.0)})
	assert.ErrorIs(t, err, ErrInvalidMetric)
}
