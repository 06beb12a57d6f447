package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/davidtseymour/personal-productivity-system/internal/model"
)

// GetOrCreateTheme returns the active theme with the normalized name,
// creating it if there is none. The partial unique index on active names
// settles concurrent creates.
func (r *goalRepository) GetOrCreateTheme(ctx context.Context, userID, name, nameNorm string) (string, bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", false, err
	}
	defer tx.Rollback()

	insert := `INSERT INTO goal_themes (id, user_id, name, name_norm, created_at)
	           VALUES ($1, $2, $3, $4, $5)
	           ON CONFLICT (user_id, name_norm) WHERE archived_at IS NULL DO NOTHING
	           RETURNING id`

	var id string
	err = tx.GetContext(ctx, &id, insert, uuid.New().String(), userID, name, nameNorm, time.Now().UTC())
	if err == nil {
		return id, true, tx.Commit()
	}
	if err != sql.ErrNoRows {
		return "", false, err
	}

	query := `SELECT id FROM goal_themes WHERE user_id = $1 AND name_norm = $2 AND archived_at IS NULL`

	err = tx.GetContext(ctx, &id, query, userID, nameNorm)
	if err != nil {
		return "", false, err
	}

	return id, false, tx.Commit()
}

func (r *goalRepository) ThemeByID(ctx context.Context, userID, themeID string) (*model.GoalTheme, error) {
	theme := &model.GoalTheme{}
	query := `SELECT * FROM goal_themes WHERE id = $1 AND user_id = $2`

	err := r.db.GetContext(ctx, theme, query, themeID, userID)
	if err == sql.ErrNoRows {
		return nil, ErrGoalThemeNotFound
	}

	return theme, err
}

// Themes returns the active themes ordered by name.
func (r *goalRepository) Themes(ctx context.Context, userID string) ([]*model.GoalTheme, error) {
	var themes []*model.GoalTheme
	query := `SELECT * FROM goal_themes
	          WHERE user_id = $1 AND archived_at IS NULL
	          ORDER BY name_norm, created_at`

	err := r.db.SelectContext(ctx, &themes, query, userID)
	return themes, err
}

// ArchiveTheme hides a theme. Its goal text is kept and the name becomes
// free for a new theme.
func (r *goalRepository) ArchiveTheme(ctx context.Context, userID, themeID string) error {
	query := `UPDATE goal_themes SET archived_at = $1 WHERE id = $2 AND user_id = $3 AND archived_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, time.Now().UTC(), themeID, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrGoalThemeNotFound
	}

	return nil
}
