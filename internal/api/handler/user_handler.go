package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"study_platform/internal/api/middleware"
	"study_platform/internal/app/service"
	"study_platform/internal/common"

	"github.com/go-chi/chi/v5"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterRoutes mounts the user resource. Only the two GETs sit behind the
// token guard; registration and the password-recovery flow must stay open to
// unauthenticated callers.
func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Post("/forgot-password", h.forgotPassword)
	r.Post("/reset-password", h.resetPassword)
	r.Post("/", h.create)
	r.Patch("/", h.addRecoveryToken) // issues/refreshes a recovery token by ?email=
	r.Patch("/{userID}", h.update)
	r.Delete("/{userID}", h.remove)

	r.Group(func(protected chi.Router) {
		protected.Use(middleware.Authenticator)
		protected.Get("/", h.findAll)
		protected.Get("/{userID}", h.findOne)
	})
}

func (h *UserHandler) create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	view, err := h.userService.Create(r.Context(), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, view)
}

func (h *UserHandler) findAll(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")

	result, err := h.userService.FindAll(r.Context(), email)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}

	// The three outcomes of the listing stay observable: a list, a single
	// view, or the legacy not-found payload for an email-filter miss.
	switch {
	case result.NotFound:
		common.RespondWithError(w, http.StatusNotFound, "User not found")
	case result.One != nil:
		common.RespondWithJSON(w, http.StatusOK, result.One)
	default:
		common.RespondWithJSON(w, http.StatusOK, result.All)
	}
}

func (h *UserHandler) findOne(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	view, err := h.userService.FindOne(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, view)
}

func (h *UserHandler) update(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req service.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	view, err := h.userService.Update(r.Context(), userID, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, view)
}

func (h *UserHandler) remove(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	if err := h.userService.Remove(r.Context(), userID); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *UserHandler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req service.ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	if err := h.userService.ForgotPassword(r.Context(), req); err != nil {
		// An unknown email gets the same 200 as a known one, so the
		// endpoint cannot be used to probe for accounts.
		if errors.Is(err, common.ErrNotFound) {
			log.Printf("INFO: Password recovery requested for unknown email")
			w.WriteHeader(http.StatusOK)
			return
		}
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *UserHandler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req service.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	if err := h.userService.ResetPassword(r.Context(), req); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *UserHandler) addRecoveryToken(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		common.RespondWithError(w, http.StatusBadRequest, "Missing email query parameter")
		return
	}

	view, err := h.userService.AddRecoveryToken(r.Context(), email)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, view)
}
