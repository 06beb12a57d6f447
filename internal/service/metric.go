package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/davidtseymour/personal-productivity-system/internal/model"
	"github.com/davidtseymour/personal-productivity-system/internal/repository"
	"github.com/davidtseymour/personal-productivity-system/internal/validation"
)

var (
	ErrInvalidMetricValue = errors.New("invalid metric value")
	ErrInvalidMetric      = errors.New("invalid metric definition")
)

// MetricValueError names the metric whose value was rejected.
type MetricValueError struct {
	Key string
	Err error
}

func (e *MetricValueError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrInvalidMetricValue, e.Key, e.Err)
}

func (e *MetricValueError) Unwrap() []error {
	return []error{ErrInvalidMetricValue, e.Err}
}

type MetricService struct {
	repo repository.MetricRepository
}

func NewMetricService(repo repository.MetricRepository) *MetricService {
	return &MetricService{repo: repo}
}

func (s *MetricService) Definitions(ctx context.Context, userID string) ([]*model.MetricDefinition, error) {
	return s.repo.Definitions(ctx, userID)
}

// Define creates or replaces a metric definition.
func (s *MetricService) Define(ctx context.Context, def *model.MetricDefinition) error {
	def.Key = strings.TrimSpace(def.Key)
	def.DisplayName = validation.CleanName(def.DisplayName)
	if def.Key == "" {
		return fmt.Errorf("%w: key is required", ErrInvalidMetric)
	}
	if def.DisplayName == "" {
		def.DisplayName = def.Key
	}
	if def.ToMinutesFactor != nil && *def.ToMinutesFactor < 0 {
		return fmt.Errorf("%w: to_minutes_factor must not be negative", ErrInvalidMetric)
	}

	if err := s.repo.UpsertDefinition(ctx, def); err != nil {
		return fmt.Errorf("failed to save metric definition: %w", err)
	}
	return nil
}

func (s *MetricService) ValuesForDate(ctx context.Context, userID string, date model.Date) ([]*model.MetricValue, error) {
	return s.repo.ValuesForDate(ctx, userID, date)
}

// FormValues renders the stored values for date keyed by metric, durations
// as h:mm. Metrics without a value are "".
func (s *MetricService) FormValues(ctx context.Context, userID string, date model.Date) (map[string]string, error) {
	defs, err := s.repo.Definitions(ctx, userID)
	if err != nil {
		return nil, err
	}

	values, err := s.repo.ValuesForDate(ctx, userID, date)
	if err != nil {
		return nil, err
	}

	byKey := make(map[string]float64, len(values))
	for _, v := range values {
		byKey[v.Key] = v.Value
	}

	form := make(map[string]string, len(defs))
	for _, def := range defs {
		v, ok := byKey[def.Key]
		if !ok {
			form[def.Key] = ""
			continue
		}
		form[def.Key] = validation.FormatMetricValue(v, def.IsDuration)
	}

	return form, nil
}

// Save validates every raw value and writes them only when all are valid.
// Empty values are skipped. The returned error joins one MetricValueError
// per rejected key.
func (s *MetricService) Save(ctx context.Context, userID string, date model.Date, raw map[string]string) (model.UpdateEvent, error) {
	defs, err := s.repo.Definitions(ctx, userID)
	if err != nil {
		return model.UpdateEvent{}, err
	}

	byKey := make(map[string]*model.MetricDefinition, len(defs))
	for _, def := range defs {
		byKey[def.Key] = def
	}

	var errs []error
	var values []*model.MetricValue
	now := time.Now().UTC()

	for _, def := range defs {
		value, ok, err := validation.ParseMetricValue(raw[def.Key], def.IsDuration)
		if err != nil {
			errs = append(errs, &MetricValueError{Key: def.Key, Err: err})
			continue
		}
		if !ok {
			continue
		}
		values = append(values, &model.MetricValue{
			UserID:    userID,
			Date:      date,
			Key:       def.Key,
			Value:     value,
			UpdatedAt: now,
		})
	}

	for key := range raw {
		if _, ok := byKey[key]; !ok {
			errs = append(errs, &MetricValueError{Key: key, Err: errors.New("unknown metric")})
		}
	}

	if len(errs) > 0 {
		return model.UpdateEvent{}, errors.Join(errs...)
	}

	if err := s.repo.UpsertValues(ctx, values); err != nil {
		return model.UpdateEvent{}, fmt.Errorf("failed to save metric values: %w", err)
	}

	return model.NewUpdateEvent(model.EventUpdate, "metrics", userID, &date), nil
}

// Clear removes the stored value of one metric for date.
func (s *MetricService) Clear(ctx context.Context, userID string, date model.Date, key string) (model.UpdateEvent, error) {
	if err := s.repo.DeleteValue(ctx, userID, date, key); err != nil {
		return model.UpdateEvent{}, fmt.Errorf("failed to clear metric value: %w", err)
	}
	return model.NewUpdateEvent(model.EventDelete, "metrics", userID, &date), nil
}
