package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/davidtseymour/personal-productivity-system/internal/model"
	"github.com/davidtseymour/personal-productivity-system/internal/repository"
	"github.com/davidtseymour/personal-productivity-system/internal/validation"
)

var ErrInvalidUsername = errors.New("username is required")

type UserService struct {
	userRepository     repository.UserRepository
	categoryRepository repository.CategoryRepository
}

func NewUserService(
	userRepository repository.UserRepository,
	categoryRepository repository.CategoryRepository,
) *UserService {
	return &UserService{
		userRepository:     userRepository,
		categoryRepository: categoryRepository,
	}
}

// CreateWithDefaults creates a user and its categories. A nil categories
// list gets model.DefaultCategories; the list order becomes the sort order.
func (s *UserService) CreateWithDefaults(ctx context.Context, username, displayName string, categories []string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrInvalidUsername
	}

	if categories == nil {
		categories = model.DefaultCategories
	}
	for _, name := range categories {
		if err := validation.ValidateName(name); err != nil {
			return nil, fmt.Errorf("category %q: %w", name, err)
		}
	}

	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = username
	}

	user := &model.User{
		ID:          uuid.New().String(),
		Username:    username,
		DisplayName: displayName,
		IsActive:    true,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.userRepository.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.categoryRepository.Upsert(ctx, user.ID, categories); err != nil {
		return nil, fmt.Errorf("failed to create categories: %w", err)
	}

	return user, nil
}

func (s *UserService) ByID(ctx context.Context, id string) (*model.User, error) {
	return s.userRepository.ByID(ctx, id)
}

func (s *UserService) ByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.userRepository.ByUsername(ctx, strings.TrimSpace(username))
}

// List returns the active users.
func (s *UserService) List(ctx context.Context) ([]*model.User, error) {
	return s.userRepository.Active(ctx)
}

func (s *UserService) SetActive(ctx context.Context, id string, active bool) error {
	return s.userRepository.SetActive(ctx, id, active)
}

func (s *UserService) Categories(ctx context.Context, userID string) ([]*model.Category, error) {
	return s.categoryRepository.Active(ctx, userID)
}

// SetCategories upserts the user's categories in the given order.
func (s *UserService) SetCategories(ctx context.Context, userID string, names []string) error {
	for _, name := range names {
		if err := validation.ValidateName(name); err != nil {
			return fmt.Errorf("category %q: %w", name, err)
		}
	}
	return s.categoryRepository.Upsert(ctx, userID, names)
}
