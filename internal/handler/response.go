package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/davidtseymour/personal-productivity-system/internal/model"
	"github.com/davidtseymour/personal-productivity-system/internal/period"
	"github.com/davidtseymour/personal-productivity-system/internal/repository"
	"github.com/davidtseymour/personal-productivity-system/internal/service"
	"github.com/davidtseymour/personal-productivity-system/internal/storage"
	"github.com/davidtseymour/personal-productivity-system/internal/validation"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error   string `json:"error"`
	Invalid any    `json:"invalid,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	err := json.NewDecoder(r.Body).Decode(v)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	return true
}

// statusFor maps service and repository errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, repository.ErrTaskNotFound),
		errors.Is(err, repository.ErrGoalSetNotFound),
		errors.Is(err, repository.ErrGoalThemeNotFound),
		errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrReflectionNotFound),
		errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidTaskTime),
		errors.Is(err, service.ErrIncompleteTask),
		errors.Is(err, service.ErrInvalidCategory),
		errors.Is(err, service.ErrInvalidMetricValue),
		errors.Is(err, service.ErrInvalidMetric),
		errors.Is(err, service.ErrInvalidReflection):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrEmptyThemeName),
		errors.Is(err, service.ErrUnknownGoalSlot),
		errors.Is(err, validation.ErrNameTooLong),
		errors.Is(err, period.ErrInvalidHorizon),
		errors.Is(err, period.ErrInvalidWeekStart):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrDuplicateUsername):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// writeServiceError answers with the status for err. Unexpected errors are
// logged and hidden behind msg.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.Error(msg, "error", err, "method", r.Method, "path", r.URL.Path)
		writeError(w, status, msg)
		return
	}

	resp := errorResponse{Error: err.Error()}
	var inputErr *service.TaskInputError
	if errors.As(err, &inputErr) {
		resp.Invalid = inputErr.Flags
	}
	writeJSON(w, status, resp)
}

// pathDate parses the {date} path value as YYYY-MM-DD.
func pathDate(w http.ResponseWriter, r *http.Request) (model.Date, bool) {
	return parseDateParam(w, r.PathValue("date"), "date")
}

func parseDateParam(w http.ResponseWriter, raw, name string) (model.Date, bool) {
	d, err := model.ParseDate(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid "+name+": expected YYYY-MM-DD")
		return model.Date{}, false
	}
	return d, true
}

// queryInt returns the integer query parameter, or def when it is absent.
func queryInt(w http.ResponseWriter, r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid "+name+": expected an integer")
		return 0, false
	}
	return n, true
}
