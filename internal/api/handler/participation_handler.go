package handler

import (
	"encoding/json"
	"net/http"
	"study_platform/internal/app/service"
	"study_platform/internal/common"

	"github.com/go-chi/chi/v5"
)

// ParticipationHandler exposes experiment participations and survey answers.
// All routes are mounted behind the token guard by the router.
type ParticipationHandler struct {
	participationService *service.ParticipationService
}

func NewParticipationHandler(ps *service.ParticipationService) *ParticipationHandler {
	return &ParticipationHandler{participationService: ps}
}

func (h *ParticipationHandler) RegisterExperimentRoutes(r chi.Router) {
	r.Post("/", h.joinExperiment)
	r.Get("/", h.listExperiments)
}

func (h *ParticipationHandler) RegisterSurveyAnswerRoutes(r chi.Router) {
	r.Post("/", h.submitAnswer)
	r.Get("/", h.listAnswers)
}

func (h *ParticipationHandler) joinExperiment(w http.ResponseWriter, r *http.Request) {
	var req service.JoinExperimentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	participation, err := h.participationService.JoinExperiment(r.Context(), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, participation)
}

func (h *ParticipationHandler) listExperiments(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")

	participations, err := h.participationService.ListExperiments(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, participations)
}

func (h *ParticipationHandler) submitAnswer(w http.ResponseWriter, r *http.Request) {
	var req service.SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	answer, err := h.participationService.SubmitAnswer(r.Context(), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, answer)
}

func (h *ParticipationHandler) listAnswers(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")

	answers, err := h.participationService.ListAnswers(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, answers)
}
