package handler

import (
	"net/http"

	"github.com/davidtseymour/personal-productivity-system/internal/ctxkeys"
	"github.com/davidtseymour/personal-productivity-system/internal/model"
	"github.com/davidtseymour/personal-productivity-system/internal/service"
)

type SummaryHandler struct {
	summaryService *service.SummaryService
	today          func() model.Date
}

// NewSummaryHandler takes today so requests without a date use the
// configured zone's current day.
func NewSummaryHandler(summaryService *service.SummaryService, today func() model.Date) *SummaryHandler {
	return &SummaryHandler{
		summaryService: summaryService,
		today:          today,
	}
}

func (h *SummaryHandler) Day(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	date := h.today()
	if raw := r.URL.Query().Get("date"); raw != "" {
		var ok bool
		date, ok = parseDateParam(w, raw, "date")
		if !ok {
			return
		}
	}

	summary, err := h.summaryService.Day(r.Context(), user.ID, date)
	if err != nil {
		writeServiceError(w, r, err, "failed to load day summary")
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

func (h *SummaryHandler) Week(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	end := h.today()
	if raw := r.URL.Query().Get("end"); raw != "" {
		var ok bool
		end, ok = parseDateParam(w, raw, "end")
		if !ok {
			return
		}
	}

	days, ok := queryInt(w, r, "days", service.DefaultSummaryDays)
	if !ok {
		return
	}

	summary, err := h.summaryService.Week(r.Context(), user.ID, end, days)
	if err != nil {
		writeServiceError(w, r, err, "failed to load week summary")
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
