package handler

import (
	"net/http"

	"github.com/davidtseymour/personal-productivity-system/internal/ctxkeys"
	"github.com/davidtseymour/personal-productivity-system/internal/interval"
	"github.com/davidtseymour/personal-productivity-system/internal/model"
	"github.com/davidtseymour/personal-productivity-system/internal/service"
)

type TaskHandler struct {
	taskService *service.TaskService
}

func NewTaskHandler(taskService *service.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

type taskResponse struct {
	Task  *model.Task        `json:"task"`
	Form  *service.TaskInput `json:"form,omitempty"`
	Event *model.UpdateEvent `json:"event,omitempty"`
}

// Check validates the raw time fields as the user types.
func (h *TaskHandler) Check(w http.ResponseWriter, r *http.Request) {
	var fields interval.Fields
	if !decodeJSON(w, r, &fields) {
		return
	}

	writeJSON(w, http.StatusOK, h.taskService.Check(fields))
}

func (h *TaskHandler) Recent(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	n, ok := queryInt(w, r, "n", service.DefaultRecentTasks)
	if !ok {
		return
	}

	tasks, err := h.taskService.Recent(r.Context(), user.ID, n)
	if err != nil {
		writeServiceError(w, r, err, "failed to load recent tasks")
		return
	}
	if tasks == nil {
		tasks = []*model.Task{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"tasks": tasks})
}

func (h *TaskHandler) Show(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	task, err := h.taskService.ByID(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, "failed to load task")
		return
	}

	form := h.taskService.FormValues(task)
	writeJSON(w, http.StatusOK, taskResponse{Task: task, Form: &form})
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var input service.TaskInput
	if !decodeJSON(w, r, &input) {
		return
	}

	task, event, err := h.taskService.Create(r.Context(), user.ID, input)
	if err != nil {
		writeServiceError(w, r, err, "failed to create task")
		return
	}

	writeJSON(w, http.StatusCreated, taskResponse{Task: task, Event: &event})
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var input service.TaskInput
	if !decodeJSON(w, r, &input) {
		return
	}

	task, event, err := h.taskService.Update(r.Context(), user.ID, r.PathValue("id"), input)
	if err != nil {
		writeServiceError(w, r, err, "failed to update task")
		return
	}

	writeJSON(w, http.StatusOK, taskResponse{Task: task, Event: &event})
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	event, err := h.taskService.Delete(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, "failed to delete task")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"event": event})
}
