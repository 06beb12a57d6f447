package handler

import (
	"net/http"

	"github.com/davidtseymour/personal-productivity-system/internal/ctxkeys"
	"github.com/davidtseymour/personal-productivity-system/internal/model"
	"github.com/davidtseymour/personal-productivity-system/internal/service"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// Me returns the acting user.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ctxkeys.User(r.Context()))
}

func (h *UserHandler) Categories(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	categories, err := h.userService.Categories(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, r, err, "failed to load categories")
		return
	}
	if categories == nil {
		categories = []*model.Category{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"categories": categories})
}
