package handler

import (
	"encoding/json"
	"net/http"
	"study_platform/internal/app/service"
	"study_platform/internal/common"

	"github.com/go-chi/chi/v5"
)

// UserTaskHandler exposes the user-task assignment links. All routes are
// mounted behind the token guard by the router.
type UserTaskHandler struct {
	taskService *service.TaskService
}

func NewUserTaskHandler(taskService *service.TaskService) *UserTaskHandler {
	return &UserTaskHandler{taskService: taskService}
}

func (h *UserTaskHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.assign)
	r.Get("/", h.listByUser)
	r.Delete("/{linkID}", h.unassign)
}

func (h *UserTaskHandler) assign(w http.ResponseWriter, r *http.Request) {
	var req service.AssignTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	link, err := h.taskService.Assign(r.Context(), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, link)
}

func (h *UserTaskHandler) listByUser(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")

	links, err := h.taskService.ListAssignments(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, links)
}

func (h *UserTaskHandler) unassign(w http.ResponseWriter, r *http.Request) {
	linkID := chi.URLParam(r, "linkID")

	if err := h.taskService.Unassign(r.Context(), linkID); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
