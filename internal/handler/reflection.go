package handler

import (
	"net/http"

	"github.com/davidtseymour/personal-productivity-system/internal/ctxkeys"
	"github.com/davidtseymour/personal-productivity-system/internal/model"
	"github.com/davidtseymour/personal-productivity-system/internal/service"
)

type ReflectionHandler struct {
	reflectionService *service.ReflectionService
}

func NewReflectionHandler(reflectionService *service.ReflectionService) *ReflectionHandler {
	return &ReflectionHandler{
		reflectionService: reflectionService,
	}
}

// Show returns the reflection as JSON, or rendered with ?format=html or
// ?format=markdown.
func (h *ReflectionHandler) Show(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	date, ok := pathDate(w, r)
	if !ok {
		return
	}

	reflection, err := h.reflectionService.ByDate(r.Context(), user.ID, date)
	if err != nil {
		writeServiceError(w, r, err, "failed to load reflection")
		return
	}

	switch r.URL.Query().Get("format") {
	case "", "json":
		writeJSON(w, http.StatusOK, map[string]any{"reflection": reflection})
	case "html":
		html, err := h.reflectionService.RenderHTML(r.Context(), reflection)
		if err != nil {
			writeServiceError(w, r, err, "failed to render reflection")
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(html)
	case "markdown":
		doc, err := h.reflectionService.Markdown(r.Context(), reflection)
		if err != nil {
			writeServiceError(w, r, err, "failed to render reflection")
			return
		}
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Write(doc)
	default:
		writeError(w, http.StatusBadRequest, "Invalid format: expected json, html or markdown")
	}
}

// List returns the reflections with from <= date < to.
func (h *ReflectionHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	from, ok := parseDateParam(w, r.URL.Query().Get("from"), "from")
	if !ok {
		return
	}
	to, ok := parseDateParam(w, r.URL.Query().Get("to"), "to")
	if !ok {
		return
	}

	reflections, err := h.reflectionService.Range(r.Context(), user.ID, from, to)
	if err != nil {
		writeServiceError(w, r, err, "failed to load reflections")
		return
	}
	if reflections == nil {
		reflections = []*model.Reflection{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"reflections": reflections})
}

func (h *ReflectionHandler) Save(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	date, ok := pathDate(w, r)
	if !ok {
		return
	}

	var input service.ReflectionInput
	if !decodeJSON(w, r, &input) {
		return
	}

	reflection, event, err := h.reflectionService.Save(r.Context(), user.ID, date, input)
	if err != nil {
		writeServiceError(w, r, err, "failed to save reflection")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"reflection": reflection, "event": event})
}
