package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/davidtseymour/personal-productivity-system/internal/ctxkeys"
)

type HealthHandler struct {
	db *sqlx.DB
}

func NewHealthHandler(db *sqlx.DB) *HealthHandler {
	return &HealthHandler{
		db: db,
	}
}

func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	err := h.db.PingContext(ctx)
	if err != nil {
		slog.Error("health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}

	resp := map[string]string{"status": "ok"}
	if cfg := ctxkeys.Config(r.Context()); cfg != nil {
		resp["app"] = cfg.AppName
		resp["env"] = cfg.AppEnv
	}
	writeJSON(w, http.StatusOK, resp)
}
