package service

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidtseymour/personal-productivity-system/internal/interval"
	"github.com/davidtseymour/personal-productivity-system/internal/model"
	"github.com/davidtseymour/personal-productivity-system/internal/repository"
	"github.com/davidtseymour/personal-productivity-system/internal/testutil"
)

type taskFixture struct {
	svc        *TaskService
	conn       *sqlx.DB
	userID     string
	categoryID string
}

func newTaskFixture(t *testing.T) taskFixture {
	t.Helper()
	conn := testutil.NewDB(t)
	userID := testutil.CreateUser(t, conn, "alice")
	categoryID := testutil.CreateCategory(t, conn, userID, "Work", 0, true)

	return taskFixture{
		svc:        NewTaskService(repository.NewTaskRepository(conn), repository.NewCategoryRepository(conn)),
		conn:       conn,
		userID:     userID,
		categoryID: categoryID,
	}
}

func (f taskFixture) input(fields interval.Fields) TaskInput {
	return TaskInput{
		Fields:      fields,
		CategoryID:  f.categoryID,
		Subcategory: " Coding ",
		Activity:    "review",
		Notes:       "",
	}
}

func TestTaskCreate(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	task, event, err := f.svc.Create(ctx, f.userID, f.input(interval.Fields{
		StartDate: "2025-05-14",
		StartTime: "9:00",
		Hours:     "1",
		Minutes:   "30",
	}))
	require.NoError(t, err)

	assert.Equal(t, 90, task.DurationMin)
	assert.Equal(t, time.Date(2025, time.May, 14, 10, 30, 0, 0, time.UTC), task.EndAt)
	assert.Equal(t, "Coding", task.Subcategory)
	assert.Equal(t, model.EventCreate, event.EventType)
	assert.Equal(t, "task", event.Entity)
	require.NotNil(t, event.Date)
	assert.Equal(t, model.NewDate(2025, time.May, 14), *event.Date)

	got, err := f.svc.ByID(ctx, f.userID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Work", got.CategoryName)
	assert.True(t, task.StartAt.Equal(got.StartAt))
	assert.True(t, task.EndAt.Equal(got.EndAt))
	assert.Equal(t, task.Date, got.Date)
}

func TestTaskCreateRejectsInvalidTime(t *testing.T) {
	f := newTaskFixture(t)

	_, _, err := f.svc.Create(context.Background(), f.userID, f.input(interval.Fields{
		StartDate: "2025-05-14",
		StartTime: "10:00",
		EndDate:   "2025-05-14",
		EndTime:   "09:00",
	}))
	require.ErrorIs(t, err, ErrInvalidTaskTime)

	var inputErr *TaskInputError
	require.ErrorAs(t, err, &inputErr)
	assert.True(t, inputErr.Flags.StartDate)
	assert.True(t, inputErr.Flags.EndTime)
	assert.Contains(t, err.Error(), "start_time")
}

func TestTaskCreateRejectsIncomplete(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	_, _, err := f.svc.Create(ctx, f.userID, f.input(interval.Fields{StartDate: "2025-05-14", StartTime: "09:00"}))
	assert.ErrorIs(t, err, ErrIncompleteTask)

	input := f.input(interval.Fields{StartDate: "2025-05-14", StartTime: "09:00", Minutes: "15"})
	input.Activity = "  "
	_, _, err = f.svc.Create(ctx, f.userID, input)
	assert.ErrorIs(t, err, ErrIncompleteTask)
}

func TestTaskCreateRejectsCategory(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()
	fields := interval.Fields{StartDate: "2025-05-14", StartTime: "09:00", Minutes: "15"}

	inactive := testutil.CreateCategory(t, f.conn, f.userID, "Old", 1, false)
	other := testutil.CreateUser(t, f.conn, "bob")
	foreign := testutil.CreateCategory(t, f.conn, other, "Work", 0, true)

	for name, categoryID := range map[string]string{
		"missing":  "",
		"inactive": inactive,
		"foreign":  foreign,
		"unknown":  "nope",
	} {
		t.Run(name, func(t *testing.T) {
			input := f.input(fields)
			input.CategoryID = categoryID
			_, _, err := f.svc.Create(ctx, f.userID, input)
			assert.ErrorIs(t, err, ErrInvalidCategory)
		})
	}
}

func TestTaskUpdateAndDelete(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	task, _, err := f.svc.Create(ctx, f.userID, f.input(interval.Fields{
		StartDate: "2025-05-14", StartTime: "09:00", Minutes: "45",
	}))
	require.NoError(t, err)

	input := f.svc.FormValues(task)
	assert.Equal(t, "0", input.Hours)
	assert.Equal(t, "45", input.Minutes)
	assert.Equal(t, "09:45", input.EndTime)

	input.EndDate, input.EndTime = "", ""
	input.Hours, input.Minutes = "2", "00"
	input.Notes = "longer"
	updated, event, err := f.svc.Update(ctx, f.userID, task.ID, input)
	require.NoError(t, err)
	assert.Equal(t, model.EventUpdate, event.EventType)
	assert.Equal(t, 120, updated.DurationMin)
	assert.Equal(t, task.ID, updated.ID)

	got, err := f.svc.ByID(ctx, f.userID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, 120, got.DurationMin)
	assert.Equal(t, "longer", got.Notes)

	other := testutil.CreateUser(t, f.conn, "bob")
	_, _, err = f.svc.Update(ctx, other, task.ID, input)
	assert.ErrorIs(t, err, repository.ErrTaskNotFound)

	event, err = f.svc.Delete(ctx, f.userID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EventDelete, event.EventType)

	_, err = f.svc.ByID(ctx, f.userID, task.ID)
	assert.ErrorIs(t, err, repository.ErrTaskNotFound)

	_, err = f.svc.Delete(ctx, f.userID, task.ID)
	assert.ErrorIs(t, err, repository.ErrTaskNotFound)
}

func TestTaskRecent(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	for _, start := range []string{"08:00", "09:00", "10:00"} {
		_, _, err := f.svc.Create(ctx, f.userID, f.input(interval.Fields{
			StartDate: "2025-05-14", StartTime: start, Minutes: "30",
		}))
		require.NoError(t, err)
	}

	tasks, err := f.svc.Recent(ctx, f.userID, 2)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, 10, tasks[0].StartAt.Hour())
	assert.Equal(t, 9, tasks[1].StartAt.Hour())

	tasks, err = f.svc.Recent(ctx, f.userID, 0)
	require.NoError(t, err)
	assert.Len(t, tasks, 3)
}

func TestTaskCheck(t *testing.T) {
	f := newTaskFixture(t)

	result := f.svc.Check(interval.Fields{StartDate: "2025-05-14", StartTime: "09:00", Hours: "3"})
	assert.True(t, result.Valid())
	assert.Equal(t, interval.DurationWarning, result.Warning)
}

func TestCategoryActiveIDs(t *testing.T) {
	f := newTaskFixture(t)
	categories := repository.NewCategoryRepository(f.conn)

	testutil.CreateCategory(t, f.conn, f.userID, "Old", 1, false)
	gym := testutil.CreateCategory(t, f.conn, f.userID, "Gym", 2, true)

	ids, err := categories.ActiveIDs(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Equal(t, []string{f.categoryID, gym}, ids)
}
