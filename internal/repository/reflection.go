package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/davidtseymour/personal-productivity-system/internal/model"
)

var (
	ErrReflectionNotFound = errors.New("reflection not found")
)

type ReflectionRepository interface {
	// Upsert stores the reflection for its (user, date) and sets the id of
	// the stored row.
	Upsert(ctx context.Context, reflection *model.Reflection) error
	ByDate(ctx context.Context, userID string, date model.Date) (*model.Reflection, error)
	Range(ctx context.Context, userID string, from, to model.Date) ([]*model.Reflection, error)
}

type reflectionRepository struct {
	db *sqlx.DB
}

func NewReflectionRepository(db *sqlx.DB) ReflectionRepository {
	return &reflectionRepository{db: db}
}

func (r *reflectionRepository) Upsert(ctx context.Context, reflection *model.Reflection) error {
	query := `INSERT INTO daily_reflections (id, user_id, reflection_date, intentionality_score, accomplishments, what_worked, what_didnt_work, intentions_tomorrow, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	          ON CONFLICT (user_id, reflection_date) DO UPDATE
	          SET intentionality_score = EXCLUDED.intentionality_score,
	              accomplishments = EXCLUDED.accomplishments,
	              what_worked = EXCLUDED.what_worked,
	              what_didnt_work = EXCLUDED.what_didnt_work,
	              intentions_tomorrow = EXCLUDED.intentions_tomorrow,
	              updated_at = EXCLUDED.updated_at
	          RETURNING id`

	row := r.db.QueryRowxContext(ctx, query,
		reflection.ID,
		reflection.UserID,
		reflection.Date,
		reflection.IntentionalityScore,
		reflection.Accomplishments,
		reflection.WhatWorked,
		reflection.WhatDidntWork,
		reflection.IntentionsTomorrow,
		reflection.CreatedAt,
		reflection.UpdatedAt,
	)
	return row.Scan(&reflection.ID)
}

func (r *reflectionRepository) ByDate(ctx context.Context, userID string, date model.Date) (*model.Reflection, error) {
	reflection := &model.Reflection{}
	query := `SELECT * FROM daily_reflections WHERE user_id = $1 AND reflection_date = $2`

	err := r.db.GetContext(ctx, reflection, query, userID, date)
	if err == sql.ErrNoRows {
		return nil, ErrReflectionNotFound
	}

	return reflection, err
}

// Range returns reflections with from <= date < to, oldest first.
func (r *reflectionRepository) Range(ctx context.Context, userID string, from, to model.Date) ([]*model.Reflection, error) {
	var reflections []*model.Reflection
	query := `SELECT * FROM daily_reflections
	          WHERE user_id = $1 AND reflection_date >= $2 AND reflection_date < $3
	          ORDER BY reflection_date`

	err := r.db.SelectContext(ctx, &reflections, query, userID, from, to)
	return reflections, err
}
