package handler

import (
	"errors"
	"net/http"

	"github.com/davidtseymour/personal-productivity-system/internal/ctxkeys"
	"github.com/davidtseymour/personal-productivity-system/internal/model"
	"github.com/davidtseymour/personal-productivity-system/internal/service"
)

type MetricHandler struct {
	metricService *service.MetricService
}

func NewMetricHandler(metricService *service.MetricService) *MetricHandler {
	return &MetricHandler{
		metricService: metricService,
	}
}

func (h *MetricHandler) Definitions(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	defs, err := h.metricService.Definitions(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, r, err, "failed to load metric definitions")
		return
	}
	if defs == nil {
		defs = []*model.MetricDefinition{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"definitions": defs})
}

// Values returns the day's values both raw and formatted for the form.
func (h *MetricHandler) Values(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	date, ok := pathDate(w, r)
	if !ok {
		return
	}

	values, err := h.metricService.ValuesForDate(r.Context(), user.ID, date)
	if err != nil {
		writeServiceError(w, r, err, "failed to load metric values")
		return
	}
	if values == nil {
		values = []*model.MetricValue{}
	}

	form, err := h.metricService.FormValues(r.Context(), user.ID, date)
	if err != nil {
		writeServiceError(w, r, err, "failed to load metric values")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"date":   date,
		"values": values,
		"form":   form,
	})
}

func (h *MetricHandler) Save(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	date, ok := pathDate(w, r)
	if !ok {
		return
	}

	var raw map[string]string
	if !decodeJSON(w, r, &raw) {
		return
	}

	event, err := h.metricService.Save(r.Context(), user.ID, date, raw)
	if err != nil {
		var valueErr *service.MetricValueError
		if errors.As(err, &valueErr) {
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
				Error:   err.Error(),
				Invalid: invalidMetricKeys(err),
			})
			return
		}
		writeServiceError(w, r, err, "failed to save metric values")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"event": event})
}

func (h *MetricHandler) Clear(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	date, ok := pathDate(w, r)
	if !ok {
		return
	}

	event, err := h.metricService.Clear(r.Context(), user.ID, date, r.PathValue("key"))
	if err != nil {
		writeServiceError(w, r, err, "failed to clear metric value")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"event": event})
}

// invalidMetricKeys maps each rejected metric key to its reason.
func invalidMetricKeys(err error) map[string]string {
	out := map[string]string{}

	errs := []error{err}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		if _, single := err.(*service.MetricValueError); !single {
			errs = joined.Unwrap()
		}
	}

	for _, e := range errs {
		var valueErr *service.MetricValueError
		if errors.As(e, &valueErr) {
			out[valueErr.Key] = valueErr.Err.Error()
		}
	}
	return out
}
