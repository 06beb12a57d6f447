package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/davidtseymour/personal-productivity-system/internal/model"
)

var (
	ErrTaskNotFound = errors.New("task not found")
)

type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	ByID(ctx context.Context, userID, taskID string) (*model.Task, error)
	Recent(ctx context.Context, userID string, n int) ([]*model.Task, error)
	Update(ctx context.Context, task *model.Task) error
	Delete(ctx context.Context, userID, taskID string) error
}

type taskRepository struct {
	db *sqlx.DB
}

func NewTaskRepository(db *sqlx.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(ctx context.Context, task *model.Task) error {
	query := `INSERT INTO tasks (id, user_id, date, start_at, end_at, duration_min, category_id, subcategory, activity, notes, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.ExecContext(ctx, query,
		task.ID,
		task.UserID,
		task.Date,
		task.StartAt,
		task.EndAt,
		task.DurationMin,
		task.CategoryID,
		task.Subcategory,
		task.Activity,
		task.Notes,
		task.CreatedAt,
		task.UpdatedAt,
	)

	return err
}

func (r *taskRepository) ByID(ctx context.Context, userID, taskID string) (*model.Task, error) {
	task := &model.Task{}
	query := `SELECT t.*, COALESCE(c.name, '') AS category_name
	          FROM tasks t
	          LEFT JOIN user_categories c ON c.id = t.category_id
	          WHERE t.id = $1 AND t.user_id = $2`

	err := r.db.GetContext(ctx, task, query, taskID, userID)
	if err == sql.ErrNoRows {
		return nil, ErrTaskNotFound
	}

	return task, err
}

// Recent returns the n most recently started tasks.
func (r *taskRepository) Recent(ctx context.Context, userID string, n int) ([]*model.Task, error) {
	var tasks []*model.Task
	query := `SELECT t.*, COALESCE(c.name, '') AS category_name
	          FROM tasks t
	          LEFT JOIN user_categories c ON c.id = t.category_id
	          WHERE t.user_id = $1
	          ORDER BY t.start_at DESC, t.created_at DESC
	          LIMIT $2`

	err := r.db.SelectContext(ctx, &tasks, query, userID, n)
	return tasks, err
}

func (r *taskRepository) Update(ctx context.Context, task *model.Task) error {
	query := `UPDATE tasks
	          SET date = $1, start_at = $2, end_at = $3, duration_min = $4, category_id = $5,
	              subcategory = $6, activity = $7, notes = $8, updated_at = $9
	          WHERE id = $10 AND user_id = $11`

	result, err := r.db.ExecContext(ctx, query,
		task.Date,
		task.StartAt,
		task.EndAt,
		task.DurationMin,
		task.CategoryID,
		task.Subcategory,
		task.Activity,
		task.Notes,
		task.UpdatedAt,
		task.ID,
		task.UserID,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrTaskNotFound
	}

	return nil
}

func (r *taskRepository) Delete(ctx context.Context, userID, taskID string) error {
	query := `DELETE FROM tasks WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, taskID, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrTaskNotFound
	}

	return nil
}
