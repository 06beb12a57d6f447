package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/davidtseymour/personal-productivity-system/internal/interval"
	"github.com/davidtseymour/personal-productivity-system/internal/model"
	"github.com/davidtseymour/personal-productivity-system/internal/repository"
)

const (
	DefaultRecentTasks = 5
	MaxRecentTasks     = 100
)

var (
	ErrInvalidTaskTime = errors.New("task time fields are invalid")
	ErrIncompleteTask  = errors.New("task is incomplete")
	ErrInvalidCategory = errors.New("category is not an active category of the user")
)

// TaskInputError carries the interval fields that failed validation.
type TaskInputError struct {
	Flags interval.Flags
}

func (e *TaskInputError) Error() string {
	var names []string
	for _, f := range []struct {
		name string
		bad  bool
	}{
		{"start_date", e.Flags.StartDate},
		{"start_time", e.Flags.StartTime},
		{"end_date", e.Flags.EndDate},
		{"end_time", e.Flags.EndTime},
		{"hours", e.Flags.Hours},
		{"minutes", e.Flags.Minutes},
	} {
		if f.bad {
			names = append(names, f.name)
		}
	}
	return fmt.Sprintf("%s: %s", ErrInvalidTaskTime, strings.Join(names, ", "))
}

func (e *TaskInputError) Unwrap() error {
	return ErrInvalidTaskTime
}

// TaskInput is the raw task form.
type TaskInput struct {
	interval.Fields
	CategoryID  string `json:"category_id"`
	Subcategory string `json:"subcategory"`
	Activity    string `json:"activity"`
	Notes       string `json:"notes"`
}

type TaskService struct {
	repo         repository.TaskRepository
	categoryRepo repository.CategoryRepository
}

func NewTaskService(repo repository.TaskRepository, categoryRepo repository.CategoryRepository) *TaskService {
	return &TaskService{
		repo:         repo,
		categoryRepo: categoryRepo,
	}
}

// Check validates the time fields without saving anything.
func (s *TaskService) Check(fields interval.Fields) interval.Result {
	return interval.Check(fields)
}

func (s *TaskService) Create(ctx context.Context, userID string, input TaskInput) (*model.Task, model.UpdateEvent, error) {
	task, err := s.build(ctx, userID, input)
	if err != nil {
		return nil, model.UpdateEvent{}, err
	}

	now := time.Now().UTC()
	task.ID = uuid.New().String()
	task.CreatedAt = now
	task.UpdatedAt = now

	if err := s.repo.Create(ctx, task); err != nil {
		return nil, model.UpdateEvent{}, fmt.Errorf("failed to create task: %w", err)
	}

	return task, model.NewUpdateEvent(model.EventCreate, "task", userID, &task.Date), nil
}

func (s *TaskService) Update(ctx context.Context, userID, taskID string, input TaskInput) (*model.Task, model.UpdateEvent, error) {
	existing, err := s.repo.ByID(ctx, userID, taskID)
	if err != nil {
		return nil, model.UpdateEvent{}, err
	}

	task, err := s.build(ctx, userID, input)
	if err != nil {
		return nil, model.UpdateEvent{}, err
	}

	task.ID = existing.ID
	task.CreatedAt = existing.CreatedAt
	task.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, task); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, model.UpdateEvent{}, err
		}
		return nil, model.UpdateEvent{}, fmt.Errorf("failed to update task: %w", err)
	}

	return task, model.NewUpdateEvent(model.EventUpdate, "task", userID, &task.Date), nil
}

func (s *TaskService) Delete(ctx context.Context, userID, taskID string) (model.UpdateEvent, error) {
	task, err := s.repo.ByID(ctx, userID, taskID)
	if err != nil {
		return model.UpdateEvent{}, err
	}

	if err := s.repo.Delete(ctx, userID, taskID); err != nil {
		return model.UpdateEvent{}, err
	}

	return model.NewUpdateEvent(model.EventDelete, "task", userID, &task.Date), nil
}

func (s *TaskService) ByID(ctx context.Context, userID, taskID string) (*model.Task, error) {
	return s.repo.ByID(ctx, userID, taskID)
}

// Recent returns the latest n tasks. n outside 1..MaxRecentTasks falls
// back to the default or the cap.
func (s *TaskService) Recent(ctx context.Context, userID string, n int) ([]*model.Task, error) {
	if n <= 0 {
		n = DefaultRecentTasks
	}
	if n > MaxRecentTasks {
		n = MaxRecentTasks
	}
	return s.repo.Recent(ctx, userID, n)
}

// FormValues returns the form input that reproduces task, used to prefill
// the edit form.
func (s *TaskService) FormValues(task *model.Task) TaskInput {
	return TaskInput{
		Fields:      interval.FromTask(task.StartAt, task.EndAt, task.DurationMin),
		CategoryID:  task.CategoryID,
		Subcategory: task.Subcategory,
		Activity:    task.Activity,
		Notes:       task.Notes,
	}
}

func (s *TaskService) build(ctx context.Context, userID string, input TaskInput) (*model.Task, error) {
	flags, iv := interval.Resolve(input.Fields)
	if flags.Any() {
		return nil, &TaskInputError{Flags: flags}
	}
	if iv == nil {
		return nil, fmt.Errorf("%w: start or end time with a duration is required", ErrIncompleteTask)
	}

	subcategory := strings.TrimSpace(input.Subcategory)
	activity := strings.TrimSpace(input.Activity)
	if subcategory == "" || activity == "" {
		return nil, fmt.Errorf("%w: subcategory and activity are required", ErrIncompleteTask)
	}

	categoryID := strings.TrimSpace(input.CategoryID)
	if categoryID == "" {
		return nil, ErrInvalidCategory
	}
	activeIDs, err := s.categoryRepo.ActiveIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	if !slices.Contains(activeIDs, categoryID) {
		return nil, ErrInvalidCategory
	}

	return &model.Task{
		UserID:      userID,
		Date:        iv.Date,
		StartAt:     iv.StartAt,
		EndAt:       iv.EndAt,
		DurationMin: iv.DurationMin,
		CategoryID:  categoryID,
		Subcategory: subcategory,
		Activity:    activity,
		Notes:       strings.TrimSpace(input.Notes),
	}, nil
}
