package main

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/davidtseymour/personal-productivity-system/internal/app"
	"github.com/davidtseymour/personal-productivity-system/internal/config"
	"github.com/davidtseymour/personal-productivity-system/internal/logger"
	"github.com/davidtseymour/personal-productivity-system/internal/routes"
)

func main() {
	cfg := config.Load()

	logger.Init(cfg.IsDevelopment(), cfg.SentryDSN)
	defer logger.Flush()

	app, err := app.New(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		panic(err)
	}
	defer func() {
		closeErr := app.Close()
		if closeErr != nil {
			slog.Error("failed to close app", "error", closeErr)
		}
	}()

	handler := routes.SetupRoutes(app)
	slog.Info("server starting",
		"port", cfg.Port,
		"env", cfg.AppEnv,
		"timezone", cfg.GoalsTimezone,
		"url", "http://localhost:"+cfg.Port,
	)

	err = http.ListenAndServe(":"+cfg.Port, handler)
	if err != nil {
		slog.Error("server failed", "error", err)
		panic(err)
	}
}
