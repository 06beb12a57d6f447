package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/davidtseymour/personal-productivity-system/internal/model"
)

type SummaryRepository interface {
	CategoryMinutes(ctx context.Context, userID string, from, to model.Date) ([]*model.CategoryMinutes, error)
	MetricTotals(ctx context.Context, userID string, from, to model.Date) ([]*model.MetricTotal, error)
}

type summaryRepository struct {
	db *sqlx.DB
}

func NewSummaryRepository(db *sqlx.DB) SummaryRepository {
	return &summaryRepository{db: db}
}

// CategoryMinutes returns minutes per day, category and subcategory for
// from <= date < to. Metric values count when their definition maps
// them to a category with a minutes factor.
func (r *summaryRepository) CategoryMinutes(ctx context.Context, userID string, from, to model.Date) ([]*model.CategoryMinutes, error) {
	var rows []*model.CategoryMinutes
	query := `WITH combined AS (
	              SELECT t.date, t.category_id, t.subcategory, t.duration_min * 1.0 AS minutes
	              FROM tasks t
	              WHERE t.user_id = $1 AND t.date >= $2 AND t.date < $3
	              UNION ALL
	              SELECT v.date, d.category_id, COALESCE(d.subcategory, ''), v.value_num * d.to_minutes_factor
	              FROM daily_metric_values v
	              JOIN metric_definitions d ON d.user_id = v.user_id AND d.metric_key = v.metric_key
	              WHERE v.user_id = $1 AND v.date >= $2 AND v.date < $3
	                AND d.category_id IS NOT NULL
	                AND d.to_minutes_factor IS NOT NULL
	          )
	          SELECT x.date, x.category_id,
	                 COALESCE(c.name, '') AS category_name,
	                 COALESCE(c.sort_order, 0) AS sort_order,
	                 x.subcategory,
	                 SUM(x.minutes) AS minutes
	          FROM combined x
	          LEFT JOIN user_categories c ON c.id = x.category_id
	          GROUP BY x.date, x.category_id, c.name, c.sort_order, x.subcategory
	          ORDER BY x.date, sort_order, category_name, x.subcategory`

	err := r.db.SelectContext(ctx, &rows, query, userID, from, to)
	return rows, err
}

// MetricTotals returns the non-duration metric values for from <= date < to.
func (r *summaryRepository) MetricTotals(ctx context.Context, userID string, from, to model.Date) ([]*model.MetricTotal, error) {
	var rows []*model.MetricTotal
	query := `SELECT v.date, v.metric_key, d.display_name, d.sort_order, v.value_num
	          FROM daily_metric_values v
	          JOIN metric_definitions d ON d.user_id = v.user_id AND d.metric_key = v.metric_key
	          WHERE v.user_id = $1 AND v.date >= $2 AND v.date < $3
	            AND d.is_duration = $4
	          ORDER BY v.date, d.sort_order, d.display_name`

	err := r.db.SelectContext(ctx, &rows, query, userID, from, to, false)
	return rows, err
}
