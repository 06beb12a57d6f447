package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/davidtseymour/personal-productivity-system/internal/model"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateUsername = errors.New("username already exists")
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	ByID(ctx context.Context, id string) (*model.User, error)
	ByUsername(ctx context.Context, username string) (*model.User, error)
	Active(ctx context.Context) ([]*model.User, error)
	SetActive(ctx context.Context, id string, active bool) error
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (id, username, display_name, is_active, created_at)
	          VALUES ($1, $2, $3, $4, $5)
	          ON CONFLICT (username) DO NOTHING
	          RETURNING id`

	var id string
	err := r.db.GetContext(ctx, &id, query, user.ID, user.Username, user.DisplayName, user.IsActive, user.CreatedAt)
	if err == sql.ErrNoRows {
		return ErrDuplicateUsername
	}
	return err
}

func (r *userRepository) ByID(ctx context.Context, id string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users WHERE id = $1`

	err := r.db.GetContext(ctx, user, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}

	return user, err
}

// ByUsername returns an active user.
func (r *userRepository) ByUsername(ctx context.Context, username string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users WHERE username = $1 AND is_active = $2`

	err := r.db.GetContext(ctx, user, query, username, true)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}

	return user, err
}

func (r *userRepository) Active(ctx context.Context) ([]*model.User, error) {
	var users []*model.User
	query := `SELECT * FROM users WHERE is_active = $1 ORDER BY display_name, username`

	err := r.db.SelectContext(ctx, &users, query, true)
	return users, err
}

func (r *userRepository) SetActive(ctx context.Context, id string, active bool) error {
	query := `UPDATE users SET is_active = $1 WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, active, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrUserNotFound
	}

	return nil
}
