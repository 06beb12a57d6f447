package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/davidtseymour/personal-productivity-system/internal/model"
	"github.com/davidtseymour/personal-productivity-system/internal/validation"
)

type CategoryRepository interface {
	// Upsert inserts the named categories in order, or moves existing ones
	// (matched on the normalized name) to their new position.
	Upsert(ctx context.Context, userID string, names []string) error
	Active(ctx context.Context, userID string) ([]*model.Category, error)
	ActiveIDs(ctx context.Context, userID string) ([]string, error)
}

type categoryRepository struct {
	db *sqlx.DB
}

func NewCategoryRepository(db *sqlx.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Upsert(ctx context.Context, userID string, names []string) error {
	if len(names) == 0 {
		return nil
	}

	query := `INSERT INTO user_categories (id, user_id, name, name_norm, is_active, sort_order, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          ON CONFLICT (user_id, name_norm)
	          DO UPDATE SET sort_order = EXCLUDED.sort_order, is_active = EXCLUDED.is_active, updated_at = EXCLUDED.updated_at`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for i, name := range names {
		_, err = tx.ExecContext(ctx, query,
			uuid.New().String(),
			userID,
			validation.CleanName(name),
			validation.NormalizeName(name),
			true,
			i,
			now,
			now,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *categoryRepository) Active(ctx context.Context, userID string) ([]*model.Category, error) {
	var categories []*model.Category
	query := `SELECT * FROM user_categories
	          WHERE user_id = $1 AND is_active = $2
	          ORDER BY sort_order, name`

	err := r.db.SelectContext(ctx, &categories, query, userID, true)
	return categories, err
}

func (r *categoryRepository) ActiveIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	query := `SELECT id FROM user_categories
	          WHERE user_id = $1 AND is_active = $2
	          ORDER BY sort_order, name`

	err := r.db.SelectContext(ctx, &ids, query, userID, true)
	return ids, err
}
