package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/davidtseymour/personal-productivity-system/internal/model"
)

var (
	ErrGoalSetNotFound   = errors.New("goal set not found")
	ErrGoalThemeNotFound = errors.New("goal theme not found")
)

type GoalRepository interface {
	// Goal sets
	SetID(ctx context.Context, userID string, horizon model.Horizon, periodStart model.Date) (*string, error)
	EnsureSet(ctx context.Context, userID string, horizon model.Horizon, periodStart model.Date) (string, error)
	SetByID(ctx context.Context, userID, setID string) (*model.GoalSet, error)

	// Goal set items
	LatestText(ctx context.Context, setID, themeID string) (string, error)
	AppendRevision(ctx context.Context, setID, themeID, text string) (bool, error)
	History(ctx context.Context, setID, themeID string) ([]*model.GoalSetItem, error)

	// Goal themes
	GetOrCreateTheme(ctx context.Context, userID, name, nameNorm string) (string, bool, error)
	ThemeByID(ctx context.Context, userID, themeID string) (*model.GoalTheme, error)
	Themes(ctx context.Context, userID string) ([]*model.GoalTheme, error)
	ArchiveTheme(ctx context.Context, userID, themeID string) error
}

type goalRepository struct {
	db *sqlx.DB
}

func NewGoalRepository(db *sqlx.DB) GoalRepository {
	return &goalRepository{db: db}
}

// SetID returns nil when no set exists for the period.
func (r *goalRepository) SetID(ctx context.Context, userID string, horizon model.Horizon, periodStart model.Date) (*string, error) {
	var id string
	query := `SELECT id FROM goal_sets WHERE user_id = $1 AND horizon = $2 AND period_start = $3`

	err := r.db.GetContext(ctx, &id, query, userID, string(horizon), periodStart)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &id, nil
}

// EnsureSet returns the id of the set for the period, creating it first if
// needed. Concurrent callers for the same period get the same id.
func (r *goalRepository) EnsureSet(ctx context.Context, userID string, horizon model.Horizon, periodStart model.Date) (string, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	insert := `INSERT INTO goal_sets (id, user_id, horizon, period_start, created_at)
	           VALUES ($1, $2, $3, $4, $5)
	           ON CONFLICT (user_id, horizon, period_start) DO NOTHING`

	_, err = tx.ExecContext(ctx, insert, uuid.New().String(), userID, string(horizon), periodStart, time.Now().UTC())
	if err != nil {
		return "", err
	}

	var id string
	query := `SELECT id FROM goal_sets WHERE user_id = $1 AND horizon = $2 AND period_start = $3`

	err = tx.GetContext(ctx, &id, query, userID, string(horizon), periodStart)
	if err != nil {
		return "", err
	}

	return id, tx.Commit()
}

func (r *goalRepository) SetByID(ctx context.Context, userID, setID string) (*model.GoalSet, error) {
	set := &model.GoalSet{}
	query := `SELECT * FROM goal_sets WHERE id = $1 AND user_id = $2`

	err := r.db.GetContext(ctx, set, query, setID, userID)
	if err == sql.ErrNoRows {
		return nil, ErrGoalSetNotFound
	}

	return set, err
}

// LatestText returns the newest revision's text, or "" when there is none.
func (r *goalRepository) LatestText(ctx context.Context, setID, themeID string) (string, error) {
	var text string
	query := `SELECT detail_text FROM goal_set_items
	          WHERE goal_set_id = $1 AND goal_theme_id = $2
	          ORDER BY revision_no DESC
	          LIMIT 1`

	err := r.db.GetContext(ctx, &text, query, setID, themeID)
	if err == sql.ErrNoRows {
		return "", nil
	}

	return text, err
}

// AppendRevision adds the next revision when text differs from the latest
// one. The read and the write are a single statement; if another writer
// takes the same revision number first, nothing is written and false is
// returned.
func (r *goalRepository) AppendRevision(ctx context.Context, setID, themeID, text string) (bool, error) {
	query := `WITH latest AS (
	              SELECT revision_no, detail_text FROM goal_set_items
	              WHERE goal_set_id = $1 AND goal_theme_id = $2
	              ORDER BY revision_no DESC
	              LIMIT 1
	          )
	          INSERT INTO goal_set_items (goal_set_id, goal_theme_id, revision_no, detail_text, created_at)
	          SELECT $1, $2, COALESCE((SELECT revision_no FROM latest), 0) + 1, $3, CURRENT_TIMESTAMP
	          WHERE COALESCE((SELECT detail_text FROM latest), '') <> $3
	          ON CONFLICT (goal_set_id, goal_theme_id, revision_no) DO NOTHING
	          RETURNING revision_no`

	var revision int
	err := r.db.GetContext(ctx, &revision, query, setID, themeID, text)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, nil
}

// History returns all revisions, newest first.
func (r *goalRepository) History(ctx context.Context, setID, themeID string) ([]*model.GoalSetItem, error) {
	var items []*model.GoalSetItem
	query := `SELECT * FROM goal_set_items
	          WHERE goal_set_id = $1 AND goal_theme_id = $2
	          ORDER BY revision_no DESC`

	err := r.db.SelectContext(ctx, &items, query, setID, themeID)
	return items, err
}
