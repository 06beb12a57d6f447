package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/davidtseymour/personal-productivity-system/internal/model"
	"github.com/davidtseymour/personal-productivity-system/internal/period"
	"github.com/davidtseymour/personal-productivity-system/internal/repository"
	"github.com/davidtseymour/personal-productivity-system/internal/validation"
)

var (
	ErrEmptyThemeName  = errors.New("goal theme name is required")
	ErrUnknownGoalSlot = errors.New("unknown goal slot")
)

// GoalSlot identifies one of the goal periods shown on the goals board.
type GoalSlot struct {
	Key     string        `json:"key"`
	Horizon model.Horizon `json:"horizon"`
	Offset  int           `json:"offset"`
}

// BoardSlots lists the goals board slots in display order.
var BoardSlots = []GoalSlot{
	{Key: "quarter", Horizon: model.HorizonQuarter, Offset: 0},
	{Key: "month", Horizon: model.HorizonMonth, Offset: 0},
	{Key: "week", Horizon: model.HorizonWeek, Offset: 0},
	{Key: "week_minus_1", Horizon: model.HorizonWeek, Offset: -1},
}

func boardSlot(key string) (GoalSlot, bool) {
	for _, slot := range BoardSlots {
		if slot.Key == key {
			return slot, true
		}
	}
	return GoalSlot{}, false
}

type BoardEntry struct {
	GoalSlot
	PeriodStart model.Date `json:"period_start"`
	GoalSetID   *string    `json:"goal_set_id"`
	Text        string     `json:"text"`
}

type Board struct {
	Theme   *model.GoalTheme `json:"theme"`
	Entries []BoardEntry     `json:"entries"`
}

// Texts returns the board text keyed by slot, the shape SaveBoard expects
// as its baseline.
func (b *Board) Texts() map[string]string {
	texts := make(map[string]string, len(b.Entries))
	for _, e := range b.Entries {
		texts[e.Key] = e.Text
	}
	return texts
}

type GoalService struct {
	repo     repository.GoalRepository
	resolver *period.Resolver
}

func NewGoalService(repo repository.GoalRepository, resolver *period.Resolver) *GoalService {
	return &GoalService{
		repo:     repo,
		resolver: resolver,
	}
}

// ResolveExisting looks up the goal set for the period at offset without
// creating it. The id is nil when the set does not exist yet.
func (s *GoalService) ResolveExisting(ctx context.Context, userID string, horizon model.Horizon, offset int) (*string, model.Date, error) {
	start, err := s.resolver.Start(horizon, offset)
	if err != nil {
		return nil, model.Date{}, err
	}

	id, err := s.repo.SetID(ctx, userID, horizon, start)
	if err != nil {
		return nil, model.Date{}, fmt.Errorf("failed to look up goal set: %w", err)
	}

	return id, start, nil
}

// EnsureForSave returns the goal set id for the period at offset, creating
// the set if it does not exist.
func (s *GoalService) EnsureForSave(ctx context.Context, userID string, horizon model.Horizon, offset int) (string, error) {
	start, err := s.resolver.Start(horizon, offset)
	if err != nil {
		return "", err
	}

	id, err := s.repo.EnsureSet(ctx, userID, horizon, start)
	if err != nil {
		return "", fmt.Errorf("failed to ensure goal set: %w", err)
	}

	return id, nil
}

// SaveItemText appends a revision when text differs from the latest one.
// It reports whether a revision was written.
func (s *GoalService) SaveItemText(ctx context.Context, goalSetID, goalThemeID, text string) (bool, error) {
	inserted, err := s.repo.AppendRevision(ctx, goalSetID, goalThemeID, text)
	if err != nil {
		return false, fmt.Errorf("failed to save goal text: %w", err)
	}
	return inserted, nil
}

// ItemText returns the latest text for the theme, or "" when the set does
// not exist or has no revision for the theme.
func (s *GoalService) ItemText(ctx context.Context, goalSetID *string, goalThemeID string) (string, error) {
	if goalSetID == nil {
		return "", nil
	}
	return s.repo.LatestText(ctx, *goalSetID, goalThemeID)
}

func (s *GoalService) ItemHistory(ctx context.Context, userID, goalSetID, goalThemeID string) ([]*model.GoalSetItem, error) {
	if _, err := s.repo.SetByID(ctx, userID, goalSetID); err != nil {
		return nil, err
	}
	return s.repo.History(ctx, goalSetID, goalThemeID)
}

// GetOrCreateTheme returns the active theme matching name, ignoring case and
// spacing differences, creating it when missing.
func (s *GoalService) GetOrCreateTheme(ctx context.Context, name, userID string) (string, bool, error) {
	if err := validation.ValidateName(name); err != nil {
		if errors.Is(err, validation.ErrNameRequired) {
			return "", false, ErrEmptyThemeName
		}
		return "", false, err
	}

	id, created, err := s.repo.GetOrCreateTheme(ctx, userID, validation.CleanName(name), validation.NormalizeName(name))
	if err != nil {
		return "", false, fmt.Errorf("failed to get or create goal theme: %w", err)
	}

	return id, created, nil
}

func (s *GoalService) Themes(ctx context.Context, userID string) ([]*model.GoalTheme, error) {
	return s.repo.Themes(ctx, userID)
}

func (s *GoalService) ArchiveTheme(ctx context.Context, userID, themeID string) error {
	return s.repo.ArchiveTheme(ctx, userID, themeID)
}

// Board loads the theme's text for every board slot. Nothing is created.
func (s *GoalService) Board(ctx context.Context, userID, themeID string) (*Board, error) {
	theme, err := s.repo.ThemeByID(ctx, userID, themeID)
	if err != nil {
		return nil, err
	}

	board := &Board{Theme: theme, Entries: make([]BoardEntry, 0, len(BoardSlots))}
	for _, slot := range BoardSlots {
		setID, start, err := s.ResolveExisting(ctx, userID, slot.Horizon, slot.Offset)
		if err != nil {
			return nil, err
		}

		text, err := s.ItemText(ctx, setID, themeID)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s goal: %w", slot.Key, err)
		}

		board.Entries = append(board.Entries, BoardEntry{
			GoalSlot:    slot,
			PeriodStart: start,
			GoalSetID:   setID,
			Text:        text,
		})
	}

	return board, nil
}

// SaveBoard writes the slots whose current text differs from baseline and
// returns the keys of the slots that got a new revision.
func (s *GoalService) SaveBoard(ctx context.Context, userID, themeID string, baseline, current map[string]string) ([]string, error) {
	for key := range current {
		if _, ok := boardSlot(key); !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownGoalSlot, key)
		}
	}

	if _, err := s.repo.ThemeByID(ctx, userID, themeID); err != nil {
		return nil, err
	}

	saved := []string{}
	for _, slot := range BoardSlots {
		text, ok := current[slot.Key]
		if !ok || text == baseline[slot.Key] {
			continue
		}

		setID, err := s.EnsureForSave(ctx, userID, slot.Horizon, slot.Offset)
		if err != nil {
			return saved, err
		}

		inserted, err := s.SaveItemText(ctx, setID, themeID, text)
		if err != nil {
			return saved, err
		}
		if inserted {
			saved = append(saved, slot.Key)
		}
	}

	return saved, nil
}
