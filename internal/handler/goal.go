package handler

import (
	"net/http"

	"github.com/davidtseymour/personal-productivity-system/internal/ctxkeys"
	"github.com/davidtseymour/personal-productivity-system/internal/model"
	"github.com/davidtseymour/personal-productivity-system/internal/service"
)

type GoalHandler struct {
	goalService *service.GoalService
}

func NewGoalHandler(goalService *service.GoalService) *GoalHandler {
	return &GoalHandler{
		goalService: goalService,
	}
}

func (h *GoalHandler) Themes(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	themes, err := h.goalService.Themes(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, r, err, "failed to load goal themes")
		return
	}
	if themes == nil {
		themes = []*model.GoalTheme{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"themes": themes})
}

func (h *GoalHandler) CreateTheme(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req struct {
		Name string `json:"name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	id, created, err := h.goalService.GetOrCreateTheme(r.Context(), req.Name, user.ID)
	if err != nil {
		writeServiceError(w, r, err, "failed to create goal theme")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]any{"id": id, "created": created})
}

func (h *GoalHandler) ArchiveTheme(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.goalService.ArchiveTheme(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, "failed to archive goal theme")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Period resolves ?horizon=WEEK&offset=-1 to its start date and existing
// goal set, without creating one.
func (h *GoalHandler) Period(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	horizon, err := model.ParseHorizon(r.URL.Query().Get("horizon"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid horizon: expected WEEK, MONTH or QTR")
		return
	}

	offset, ok := queryInt(w, r, "offset", 0)
	if !ok {
		return
	}

	setID, start, err := h.goalService.ResolveExisting(r.Context(), user.ID, horizon, offset)
	if err != nil {
		writeServiceError(w, r, err, "failed to resolve goal period")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"horizon":      horizon,
		"offset":       offset,
		"period_start": start,
		"goal_set_id":  setID,
	})
}

func (h *GoalHandler) Board(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	themeID := r.URL.Query().Get("theme")
	if themeID == "" {
		writeError(w, http.StatusBadRequest, "theme is required")
		return
	}

	board, err := h.goalService.Board(r.Context(), user.ID, themeID)
	if err != nil {
		writeServiceError(w, r, err, "failed to load goals")
		return
	}

	writeJSON(w, http.StatusOK, board)
}

// SaveBoard stores the slots whose text changed since the board was loaded.
func (h *GoalHandler) SaveBoard(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req struct {
		ThemeID  string            `json:"theme_id"`
		Baseline map[string]string `json:"baseline"`
		Current  map[string]string `json:"current"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ThemeID == "" {
		writeError(w, http.StatusBadRequest, "theme_id is required")
		return
	}

	saved, err := h.goalService.SaveBoard(r.Context(), user.ID, req.ThemeID, req.Baseline, req.Current)
	if err != nil {
		writeServiceError(w, r, err, "failed to save goals")
		return
	}

	board, err := h.goalService.Board(r.Context(), user.ID, req.ThemeID)
	if err != nil {
		writeServiceError(w, r, err, "failed to load goals")
		return
	}

	resp := map[string]any{"saved": saved, "board": board}
	if len(saved) > 0 {
		resp["event"] = model.NewUpdateEvent(model.EventUpdate, "goals", user.ID, nil)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *GoalHandler) History(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	setID := r.URL.Query().Get("set")
	themeID := r.URL.Query().Get("theme")
	if setID == "" || themeID == "" {
		writeError(w, http.StatusBadRequest, "set and theme are required")
		return
	}

	items, err := h.goalService.ItemHistory(r.Context(), user.ID, setID, themeID)
	if err != nil {
		writeServiceError(w, r, err, "failed to load goal history")
		return
	}
	if items == nil {
		items = []*model.GoalSetItem{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}
