package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/davidtseymour/personal-productivity-system/internal/markdown"
	"github.com/davidtseymour/personal-productivity-system/internal/model"
	"github.com/davidtseymour/personal-productivity-system/internal/repository"
	"github.com/davidtseymour/personal-productivity-system/internal/storage"
	"github.com/davidtseymour/personal-productivity-system/internal/validation"
)

var ErrInvalidReflection = errors.New("invalid reflection")

type ReflectionInput struct {
	IntentionalityScore *int   `json:"intentionality_score"`
	Accomplishments     string `json:"accomplishments"`
	WhatWorked          string `json:"what_worked"`
	WhatDidntWork       string `json:"what_didnt_work"`
	IntentionsTomorrow  string `json:"intentions_tomorrow"`
}

type ReflectionService struct {
	repo     repository.ReflectionRepository
	userRepo repository.UserRepository
	archive  storage.Storage
	parser   *markdown.Parser
}

// NewReflectionService builds the service. archive may be nil, in which
// case saved reflections are not archived.
func NewReflectionService(
	repo repository.ReflectionRepository,
	userRepo repository.UserRepository,
	archive storage.Storage,
) *ReflectionService {
	return &ReflectionService{
		repo:     repo,
		userRepo: userRepo,
		archive:  archive,
		parser:   markdown.NewParser(),
	}
}

// Save creates or replaces the user's reflection for date and archives it
// as Markdown. Archive failures are logged and do not fail the save.
func (s *ReflectionService) Save(ctx context.Context, userID string, date model.Date, input ReflectionInput) (*model.Reflection, model.UpdateEvent, error) {
	now := time.Now().UTC()
	reflection := &model.Reflection{
		ID:                  uuid.New().String(),
		UserID:              userID,
		Date:                date,
		IntentionalityScore: input.IntentionalityScore,
		Accomplishments:     strings.TrimSpace(input.Accomplishments),
		WhatWorked:          strings.TrimSpace(input.WhatWorked),
		WhatDidntWork:       strings.TrimSpace(input.WhatDidntWork),
		IntentionsTomorrow:  strings.TrimSpace(input.IntentionsTomorrow),
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if date.IsZero() {
		return nil, model.UpdateEvent{}, fmt.Errorf("%w: date is required", ErrInvalidReflection)
	}
	if err := validation.Struct(reflection); err != nil {
		return nil, model.UpdateEvent{}, fmt.Errorf("%w: %v", ErrInvalidReflection, err)
	}

	if err := s.repo.Upsert(ctx, reflection); err != nil {
		return nil, model.UpdateEvent{}, fmt.Errorf("failed to save reflection: %w", err)
	}

	saved, err := s.repo.ByDate(ctx, userID, date)
	if err != nil {
		return nil, model.UpdateEvent{}, fmt.Errorf("failed to reload reflection: %w", err)
	}

	s.archiveReflection(ctx, saved)

	return saved, model.NewUpdateEvent(model.EventUpdate, "reflection", userID, &date), nil
}

func (s *ReflectionService) ByDate(ctx context.Context, userID string, date model.Date) (*model.Reflection, error) {
	return s.repo.ByDate(ctx, userID, date)
}

// Range returns the reflections with from <= date < to.
func (s *ReflectionService) Range(ctx context.Context, userID string, from, to model.Date) ([]*model.Reflection, error) {
	return s.repo.Range(ctx, userID, from, to)
}

// Markdown renders the reflection document with its front matter.
func (s *ReflectionService) Markdown(ctx context.Context, reflection *model.Reflection) ([]byte, error) {
	return markdown.ReflectionDocument(reflection, s.username(ctx, reflection.UserID))
}

// RenderHTML renders the reflection document body as HTML.
func (s *ReflectionService) RenderHTML(ctx context.Context, reflection *model.Reflection) ([]byte, error) {
	doc, err := s.Markdown(ctx, reflection)
	if err != nil {
		return nil, err
	}

	html, _, err := s.parser.ParseWithFrontmatter(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to render reflection: %w", err)
	}
	return html, nil
}

// Archived returns the archived Markdown document for date.
func (s *ReflectionService) Archived(ctx context.Context, userID string, date model.Date) ([]byte, error) {
	if s.archive == nil {
		return nil, storage.ErrNotFound
	}
	return s.archive.Load(ctx, markdown.ReflectionPath(userID, date))
}

func (s *ReflectionService) archiveReflection(ctx context.Context, reflection *model.Reflection) {
	if s.archive == nil {
		return
	}

	doc, err := s.Markdown(ctx, reflection)
	if err != nil {
		slog.Error("failed to render reflection archive", "error", err, "user_id", reflection.UserID, "date", reflection.Date)
		return
	}

	path := markdown.ReflectionPath(reflection.UserID, reflection.Date)
	if err := s.archive.Save(ctx, path, bytes.NewReader(doc)); err != nil {
		slog.Error("failed to archive reflection", "error", err, "path", path)
	}
}

func (s *ReflectionService) username(ctx context.Context, userID string) string {
	user, err := s.userRepo.ByID(ctx, userID)
	if err != nil {
		return userID
	}
	return user.Username
}
