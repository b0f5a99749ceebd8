package handler

import (
	"encoding/json"
	"net/http"
	"study_platform/internal/api/middleware"
	"study_platform/internal/app/service"
	"study_platform/internal/common"

	"github.com/go-chi/chi/v5"
)

type TaskHandler struct {
	taskService *service.TaskService
}

func NewTaskHandler(taskService *service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

func (h *TaskHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listTasks)
	r.Get("/{taskSlug}", h.getTask)

	r.Group(func(protected chi.Router) {
		protected.Use(middleware.Authenticator)
		protected.Post("/", h.createTask)
		protected.Delete("/{taskSlug}", h.removeTask)
	})
}

func (h *TaskHandler) createTask(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.GetUserEmailFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	task, err := h.taskService.Create(r.Context(), email, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) listTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.taskService.FindAll(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) getTask(w http.ResponseWriter, r *http.Request) {
	taskSlug := chi.URLParam(r, "taskSlug")

	task, err := h.taskService.FindBySlug(r.Context(), taskSlug)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) removeTask(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.GetUserEmailFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	taskSlug := chi.URLParam(r, "taskSlug")
	if err := h.taskService.Remove(r.Context(), email, taskSlug); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
