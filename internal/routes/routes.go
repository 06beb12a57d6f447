package routes

import (
	"net/http"
	"time"

	"github.com/davidtseymour/personal-productivity-system/internal/app"
	"github.com/davidtseymour/personal-productivity-system/internal/handler"
	"github.com/davidtseymour/personal-productivity-system/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	health := handler.NewHealthHandler(app.DB)
	user := handler.NewUserHandler(app.UserService)
	task := handler.NewTaskHandler(app.TaskService)
	metric := handler.NewMetricHandler(app.MetricService)
	reflection := handler.NewReflectionHandler(app.ReflectionService)
	goal := handler.NewGoalHandler(app.GoalService)
	summary := handler.NewSummaryHandler(app.SummaryService, app.Resolver.Today)

	// Every /app route needs an acting user; writes are also rate limited
	limit := middleware.RateLimitWrites(app.Cfg.WriteRateLimit, time.Minute)
	read := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.ChainFunc(h, middleware.RequireUser)
	}
	write := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.ChainFunc(h, middleware.RequireUser, limit)
	}

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /healthz", health.Healthz)

	// ============================================================================
	// USER ROUTES (/app/*)
	// ============================================================================

	// User
	mux.HandleFunc("GET /app/me", read(user.Me))
	mux.HandleFunc("GET /app/categories", read(user.Categories))

	// Tasks
	mux.HandleFunc("POST /app/tasks/check", read(task.Check))
	mux.HandleFunc("GET /app/tasks/recent", read(task.Recent))
	mux.HandleFunc("GET /app/tasks/{id}", read(task.Show))
	mux.HandleFunc("POST /app/tasks", write(task.Create))
	mux.HandleFunc("PUT /app/tasks/{id}", write(task.Update))
	mux.HandleFunc("DELETE /app/tasks/{id}", write(task.Delete))

	// Daily metrics
	mux.HandleFunc("GET /app/metrics/definitions", read(metric.Definitions))
	mux.HandleFunc("GET /app/metrics/{date}", read(metric.Values))
	mux.HandleFunc("PUT /app/metrics/{date}", write(metric.Save))
	mux.HandleFunc("DELETE /app/metrics/{date}/{key}", write(metric.Clear))

	// Reflections
	mux.HandleFunc("GET /app/reflections", read(reflection.List))
	mux.HandleFunc("GET /app/reflections/{date}", read(reflection.Show))
	mux.HandleFunc("PUT /app/reflections/{date}", write(reflection.Save))

	// Goals
	mux.HandleFunc("GET /app/goals/themes", read(goal.Themes))
	mux.HandleFunc("POST /app/goals/themes", write(goal.CreateTheme))
	mux.HandleFunc("DELETE /app/goals/themes/{id}", write(goal.ArchiveTheme))
	mux.HandleFunc("GET /app/goals/period", read(goal.Period))
	mux.HandleFunc("GET /app/goals/board", read(goal.Board))
	mux.HandleFunc("PUT /app/goals/board", write(goal.SaveBoard))
	mux.HandleFunc("GET /app/goals/items/history", read(goal.History))

	// Summaries
	mux.HandleFunc("GET /app/summary/day", read(summary.Day))
	mux.HandleFunc("GET /app/summary/week", read(summary.Week))

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.Config(app.Cfg),
		middleware.ActingUser(app.UserService, app.Cfg.DefaultUsername),
		middleware.RequestLogging,
	)

	return handler
}
