package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/davidtseymour/personal-productivity-system/internal/model"
	"github.com/davidtseymour/personal-productivity-system/internal/period"
	"github.com/davidtseymour/personal-productivity-system/internal/repository"
	"github.com/davidtseymour/personal-productivity-system/internal/testutil"
)

// Wednesday 2025-05-14 12:00 UTC.
var fixedNow = time.Date(2025, time.May, 14, 12, 0, 0, 0, time.UTC)

func newGoalService(t *testing.T) (*GoalService, *sqlx.DB, string) {
	t.Helper()
	conn := testutil.NewDB(t)
	userID := testutil.CreateUser(t, conn, "alice")

	resolver := period.NewResolver(time.UTC, 0)
	resolver.Now = func() time.Time { return fixedNow }

	return NewGoalService(repository.NewGoalRepository(conn), resolver), conn, userID
}

func TestGoalResolveExistingDoesNotCreate(t *testing.T) {
	svc, conn, userID := newGoalService(t)
	ctx := context.Background()

	id, start, err := svc.ResolveExisting(ctx, userID, model.HorizonWeek, 0)
	require.NoError(t, err)
	assert.Nil(t, id)
	assert.Equal(t, model.NewDate(2025, time.May, 12), start)

	var count int
	require.NoError(t, conn.Get(&count, `SELECT COUNT(*) FROM goal_sets`))
	assert.Zero(t, count)
}

func TestGoalEnsureForSaveIsIdempotent(t *testing.T) {
	svc, _, userID := newGoalService(t)
	ctx := context.Background()

	first, err := svc.EnsureForSave(ctx, userID, model.HorizonMonth, 0)
	require.NoError(t, err)
	second, err := svc.EnsureForSave(ctx, userID, model.HorizonMonth, 0)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	id, start, err := svc.ResolveExisting(ctx, userID, model.HorizonMonth, 0)
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, first, *id)
	assert.Equal(t, model.NewDate(2025, time.May, 1), start)

	other, err := svc.EnsureForSave(ctx, userID, model.HorizonMonth, -1)
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}

func TestGoalEnsureForSaveConcurrent(t *testing.T) {
	svc, conn, userID := newGoalService(t)
	ctx := context.Background()

	const writers = 8
	ids := make([]string, writers)
	g, gctx := errgroup.WithContext(ctx)
	for i := range writers {
		g.Go(func() error {
			id, err := svc.EnsureForSave(gctx, userID, model.HorizonQuarter, 0)
			ids[i] = id
			return err
		})
	}
	require.NoError(t, g.Wait())

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}

	var count int
	require.NoError(t, conn.Get(&count, `SELECT COUNT(*) FROM goal_sets`))
	assert.Equal(t, 1, count)
}

func TestGoalEnsureForSaveRejectsUnknownHorizon(t *testing.T) {
	svc, _, userID := newGoalService(t)

	_, err := svc.EnsureForSave(context.Background(), userID, model.Horizon("YEAR"), 0)
	assert.ErrorIs(t, err, period.ErrInvalidHorizon)
}

func TestGoalSaveItemText(t *testing.T) {
	svc, _, userID := newGoalService(t)
	ctx := context.Background()

	setID, err := svc.EnsureForSave(ctx, userID, model.HorizonWeek, 0)
	require.NoError(t, err)
	themeID, _, err := svc.GetOrCreateTheme(ctx, "Health", userID)
	require.NoError(t, err)

	text, err := svc.ItemText(ctx, &setID, themeID)
	require.NoError(t, err)
	assert.Empty(t, text)

	saved, err := svc.SaveItemText(ctx, setID, themeID, "run 3x")
	require.NoError(t, err)
	assert.True(t, saved)

	saved, err = svc.SaveItemText(ctx, setID, themeID, "run 3x")
	require.NoError(t, err)
	assert.False(t, saved, "unchanged text is not a new revision")

	saved, err = svc.SaveItemText(ctx, setID, themeID, "run 4x")
	require.NoError(t, err)
	assert.True(t, saved)

	text, err = svc.ItemText(ctx, &setID, themeID)
	require.NoError(t, err)
	assert.Equal(t, "run 4x", text)

	history, err := svc.ItemHistory(ctx, userID, setID, themeID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 2, history[0].RevisionNo)
	assert.Equal(t, "run 4x", history[0].DetailText)
	assert.Equal(t, 1, history[1].RevisionNo)

	text, err = svc.ItemText(ctx, nil, themeID)
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestGoalSaveItemTextEmptyFirstRevision(t *testing.T) {
	svc, _, userID := newGoalService(t)
	ctx := context.Background()

	setID, err := svc.EnsureForSave(ctx, userID, model.HorizonWeek, 0)
	require.NoError(t, err)
	themeID, _, err := svc.GetOrCreateTheme(ctx, "Health", userID)
	require.NoError(t, err)

	saved, err := svc.SaveItemText(ctx, setID, themeID, "")
	require.NoError(t, err)
	assert.False(t, saved, "empty text equals the missing latest revision")
}

func TestGoalSaveItemTextConcurrent(t *testing.T) {
	svc, conn, userID := newGoalService(t)
	ctx := context.Background()

	setID, err := svc.EnsureForSave(ctx, userID, model.HorizonWeek, 0)
	require.NoError(t, err)
	themeID, _, err := svc.GetOrCreateTheme(ctx, "Health", userID)
	require.NoError(t, err)

	const writers = 8
	var mu sync.Mutex
	inserted := 0
	g, gctx := errgroup.WithContext(ctx)
	for range writers {
		g.Go(func() error {
			ok, err := svc.SaveItemText(gctx, setID, themeID, "same text")
			if ok {
				mu.Lock()
				inserted++
				mu.Unlock()
			}
			return err
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, 1, inserted)

	var revisions []int
	require.NoError(t, conn.Select(&revisions, `SELECT revision_no FROM goal_set_items ORDER BY revision_no`))
	assert.Equal(t, []int{1}, revisions)
}

func TestGoalSaveItemTextConcurrentDistinctText(t *testing.T) {
	svc, conn, userID := newGoalService(t)
	ctx := context.Background()

	setID, err := svc.EnsureForSave(ctx, userID, model.HorizonWeek, 0)
	require.NoError(t, err)
	themeID, _, err := svc.GetOrCreateTheme(ctx, "Health", userID)
	require.NoError(t, err)

	const writers = 8
	var mu sync.Mutex
	inserted := 0
	g, gctx := errgroup.WithContext(ctx)
	for i := range writers {
		g.Go(func() error {
			ok, err := svc.SaveItemText(gctx, setID, themeID, fmt.Sprintf("text %d", i))
			if ok {
				mu.Lock()
				inserted++
				mu.Unlock()
			}
			return err
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, writers, inserted)

	var revisions []int
	require.NoError(t, conn.Select(&revisions,
		`SELECT revision_no FROM goal_set_items WHERE goal_set_id = $1 AND goal_theme_id = $2 ORDER BY revision_no`,
		setID, themeID))
	require.Len(t, revisions, inserted)
	for i, rev := range revisions {
		assert.Equal(t, i+1, rev)
	}

	history, err := svc.ItemHistory(ctx, userID, setID, themeID)
	require.NoError(t, err)
	texts := map[string]bool{}
	for _, item := range history {
		texts[item.DetailText] = true
	}
	assert.Len(t, texts, writers)
}

func TestGoalGetOrCreateTheme(t *testing.T) {
	svc, _, userID := newGoalService(t)
	ctx := context.Background()

	id, created, err := svc.GetOrCreateTheme(ctx, "  Deep   Work ", userID)
	require.NoError(t, err)
	assert.True(t, created)

	again, created, err := svc.GetOrCreateTheme(ctx, "deep work", userID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, id, again)

	themes, err := svc.Themes(ctx, userID)
	require.NoError(t, err)
	require.Len(t, themes, 1)
	assert.Equal(t, "Deep Work", themes[0].Name)

	_, _, err = svc.GetOrCreateTheme(ctx, "   ", userID)
	assert.ErrorIs(t, err, ErrEmptyThemeName)

	fitness, created, err := svc.GetOrCreateTheme(ctx, "Fitness", userID)
	require.NoError(t, err)
	assert.True(t, created)
	same, created, err := svc.GetOrCreateTheme(ctx, "  fitness ", userID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, fitness, same)
}

func TestGoalGetOrCreateThemeConcurrent(t *testing.T) {
	svc, _, userID := newGoalService(t)
	ctx := context.Background()

	const writers = 8
	ids := make([]string, writers)
	var created int
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for i := range writers {
		g.Go(func() error {
			id, c, err := svc.GetOrCreateTheme(gctx, "Fitness", userID)
			ids[i] = id
			if c {
				mu.Lock()
				created++
				mu.Unlock()
			}
			return err
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, 1, created)
	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
}

func TestGoalArchiveTheme(t *testing.T) {
	svc, _, userID := newGoalService(t)
	ctx := context.Background()

	id, _, err := svc.GetOrCreateTheme(ctx, "Reading", userID)
	require.NoError(t, err)
	require.NoError(t, svc.ArchiveTheme(ctx, userID, id))

	themes, err := svc.Themes(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, themes)

	assert.ErrorIs(t, svc.ArchiveTheme(ctx, userID, id), repository.ErrGoalThemeNotFound)

	// an archived name can be reused
	newID, created, err := svc.GetOrCreateTheme(ctx, "reading", userID)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, id, newID)
}

func TestGoalThemesOrderedByName(t *testing.T) {
	svc, _, userID := newGoalService(t)
	ctx := context.Background()

	for _, name := range []string{"work", "Admin", "health"} {
		_, _, err := svc.GetOrCreateTheme(ctx, name, userID)
		require.NoError(t, err)
	}

	themes, err := svc.Themes(ctx, userID)
	require.NoError(t, err)
	var names []string
	for _, th := range themes {
		names = append(names, th.Name)
	}
	assert.Equal(t, []string{"Admin", "health", "work"}, names)
}

func TestGoalBoard(t *testing.T) {
	svc, _, userID := newGoalService(t)
	ctx := context.Background()

	themeID, _, err := svc.GetOrCreateTheme(ctx, "Career", userID)
	require.NoError(t, err)

	board, err := svc.Board(ctx, userID, themeID)
	require.NoError(t, err)
	require.Len(t, board.Entries, 4)
	assert.Equal(t, "quarter", board.Entries[0].Key)
	assert.Equal(t, model.NewDate(2025, time.April, 1), board.Entries[0].PeriodStart)
	assert.Equal(t, model.NewDate(2025, time.May, 1), board.Entries[1].PeriodStart)
	assert.Equal(t, model.NewDate(2025, time.May, 12), board.Entries[2].PeriodStart)
	assert.Equal(t, model.NewDate(2025, time.May, 5), board.Entries[3].PeriodStart)
	for _, e := range board.Entries {
		assert.Nil(t, e.GoalSetID)
		assert.Empty(t, e.Text)
	}

	baseline := board.Texts()
	current := board.Texts()
	current["week"] = "ship the release"
	current["quarter"] = "promotion"

	saved, err := svc.SaveBoard(ctx, userID, themeID, baseline, current)
	require.NoError(t, err)
	assert.Equal(t, []string{"quarter", "week"}, saved)

	board, err = svc.Board(ctx, userID, themeID)
	require.NoError(t, err)
	texts := board.Texts()
	assert.Equal(t, "promotion", texts["quarter"])
	assert.Equal(t, "", texts["month"])
	assert.Equal(t, "ship the release", texts["week"])
	assert.Nil(t, board.Entries[1].GoalSetID, "unchanged slots create no set")

	// saving the same board again writes nothing
	saved, err = svc.SaveBoard(ctx, userID, themeID, baseline, current)
	require.NoError(t, err)
	assert.Empty(t, saved)
}

func TestGoalSaveBoardErrors(t *testing.T) {
	svc, _, userID := newGoalService(t)
	ctx := context.Background()

	themeID, _, err := svc.GetOrCreateTheme(ctx, "Career", userID)
	require.NoError(t, err)

	_, err = svc.SaveBoard(ctx, userID, themeID, nil, map[string]string{"year": "x"})
	assert.ErrorIs(t, err, ErrUnknownGoalSlot)

	_, err = svc.SaveBoard(ctx, userID, "missing", nil, map[string]string{"week": "x"})
	assert.ErrorIs(t, err, repository.ErrGoalThemeNotFound)

	_, err = svc.Board(ctx, userID, "missing")
	assert.ErrorIs(t, err, repository.ErrGoalThemeNotFound)
}

func TestGoalItemHistoryOtherUser(t *testing.T) {
	svc, conn, userID := newGoalService(t)
	ctx := context.Background()
	other := testutil.CreateUser(t, conn, "bob")

	setID, err := svc.EnsureForSave(ctx, userID, model.HorizonWeek, 0)
	require.NoError(t, err)

	_, err = svc.ItemHistory(ctx, other, setID, "theme")
	assert.ErrorIs(t, err, repository.ErrGoalSetNotFound)
}
