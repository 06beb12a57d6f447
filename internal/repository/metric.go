package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/davidtseymour/personal-productivity-system/internal/model"
)

type MetricRepository interface {
	UpsertDefinition(ctx context.Context, def *model.MetricDefinition) error
	Definitions(ctx context.Context, userID string) ([]*model.MetricDefinition, error)
	ValuesForDate(ctx context.Context, userID string, date model.Date) ([]*model.MetricValue, error)
	UpsertValues(ctx context.Context, values []*model.MetricValue) error
	DeleteValue(ctx context.Context, userID string, date model.Date, key string) error
}

type metricRepository struct {
	db *sqlx.DB
}

func NewMetricRepository(db *sqlx.DB) MetricRepository {
	return &metricRepository{db: db}
}

func (r *metricRepository) UpsertDefinition(ctx context.Context, def *model.MetricDefinition) error {
	query := `INSERT INTO metric_definitions (user_id, metric_key, display_name, is_duration, sort_order, category_id, subcategory, to_minutes_factor)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          ON CONFLICT (user_id, metric_key) DO UPDATE
	          SET display_name = EXCLUDED.display_name,
	              is_duration = EXCLUDED.is_duration,
	              sort_order = EXCLUDED.sort_order,
	              category_id = EXCLUDED.category_id,
	              subcategory = EXCLUDED.subcategory,
	              to_minutes_factor = EXCLUDED.to_minutes_factor`

	_, err := r.db.ExecContext(ctx, query,
		def.UserID,
		def.Key,
		def.DisplayName,
		def.IsDuration,
		def.SortOrder,
		def.CategoryID,
		def.Subcategory,
		def.ToMinutesFactor,
	)
	return err
}

func (r *metricRepository) Definitions(ctx context.Context, userID string) ([]*model.MetricDefinition, error) {
	var defs []*model.MetricDefinition
	query := `SELECT * FROM metric_definitions WHERE user_id = $1 ORDER BY sort_order, display_name`

	err := r.db.SelectContext(ctx, &defs, query, userID)
	return defs, err
}

func (r *metricRepository) ValuesForDate(ctx context.Context, userID string, date model.Date) ([]*model.MetricValue, error) {
	var values []*model.MetricValue
	query := `SELECT v.user_id, v.date, v.metric_key, v.value_num, v.updated_at
	          FROM daily_metric_values v
	          JOIN metric_definitions d ON d.user_id = v.user_id AND d.metric_key = v.metric_key
	          WHERE v.user_id = $1 AND v.date = $2
	          ORDER BY d.sort_order, d.display_name`

	err := r.db.SelectContext(ctx, &values, query, userID, date)
	return values, err
}

// UpsertValues writes all values in one transaction.
func (r *metricRepository) UpsertValues(ctx context.Context, values []*model.MetricValue) error {
	if len(values) == 0 {
		return nil
	}

	query := `INSERT INTO daily_metric_values (user_id, date, metric_key, value_num, updated_at)
	          VALUES ($1, $2, $3, $4, $5)
	          ON CONFLICT (user_id, date, metric_key) DO UPDATE
	          SET value_num = EXCLUDED.value_num, updated_at = EXCLUDED.updated_at`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, v := range values {
		v.UpdatedAt = now
		_, err = tx.ExecContext(ctx, query, v.UserID, v.Date, v.Key, v.Value, v.UpdatedAt)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *metricRepository) DeleteValue(ctx context.Context, userID string, date model.Date, key string) error {
	query := `DELETE FROM daily_metric_values WHERE user_id = $1 AND date = $2 AND metric_key = $3`

	_, err := r.db.ExecContext(ctx, query, userID, date, key)
	return err
}
