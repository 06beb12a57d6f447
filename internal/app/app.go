package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/davidtseymour/personal-productivity-system/internal/config"
	"github.com/davidtseymour/personal-productivity-system/internal/db"
	"github.com/davidtseymour/personal-productivity-system/internal/period"
	"github.com/davidtseymour/personal-productivity-system/internal/repository"
	"github.com/davidtseymour/personal-productivity-system/internal/service"
	"github.com/davidtseymour/personal-productivity-system/internal/storage"
)

type App struct {
	Cfg               *config.Config
	DB                *sqlx.DB
	Resolver          *period.Resolver
	UserService       *service.UserService
	TaskService       *service.TaskService
	MetricService     *service.MetricService
	ReflectionService *service.ReflectionService
	GoalService       *service.GoalService
	SummaryService    *service.SummaryService
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	err = db.RunMigrations(ctx, database.DB, cfg.DBDriver)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Reflection archive
	archive, err := storage.New(ctx, cfg)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	return Wire(cfg, database, archive), nil
}

// Wire builds the repositories and services over an open database.
func Wire(cfg *config.Config, database *sqlx.DB, archive storage.Storage) *App {
	// Repositories
	userRepository := repository.NewUserRepository(database)
	categoryRepository := repository.NewCategoryRepository(database)
	taskRepository := repository.NewTaskRepository(database)
	metricRepository := repository.NewMetricRepository(database)
	reflectionRepository := repository.NewReflectionRepository(database)
	goalRepository := repository.NewGoalRepository(database)
	summaryRepository := repository.NewSummaryRepository(database)

	resolver := period.NewResolver(cfg.Location(), cfg.GoalsWeekStart)

	// Services
	return &App{
		Cfg:               cfg,
		DB:                database,
		Resolver:          resolver,
		UserService:       service.NewUserService(userRepository, categoryRepository),
		TaskService:       service.NewTaskService(taskRepository, categoryRepository),
		MetricService:     service.NewMetricService(metricRepository),
		ReflectionService: service.NewReflectionService(reflectionRepository, userRepository, archive),
		GoalService:       service.NewGoalService(goalRepository, resolver),
		SummaryService:    service.NewSummaryService(summaryRepository),
	}
}

func (a *App) Close() error {
	return db.Close(a.DB)
}
