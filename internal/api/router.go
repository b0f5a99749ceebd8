package api

import (
	"net/http"
	"study_platform/internal/api/handler"
	"study_platform/internal/api/middleware"
	"study_platform/internal/app/service"
	"study_platform/internal/common/security"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	authService *service.AuthService,
	userService *service.UserService,
	taskService *service.TaskService,
	participationService *service.ParticipationService,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Verifies a bearer token when present and puts claims in context;
	// enforcement happens per route group via middleware.Authenticator.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	// Public health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// API v1 Routes
	r.Route("/api/v1", func(v1 chi.Router) {
		// Auth routes (public)
		authHandler := handler.NewAuthHandler(authService)
		v1.Group(func(publicAuth chi.Router) {
			authHandler.RegisterRoutes(publicAuth)
		})

		// User resource keeps the legacy /users2 mount; the handler guards
		// its own protected subset.
		userHandler := handler.NewUserHandler(userService)
		v1.Route("/users2", userHandler.RegisterRoutes)

		// Task catalog (reads public, writes guarded inside the handler)
		taskHandler := handler.NewTaskHandler(taskService)
		v1.Route("/tasks", taskHandler.RegisterRoutes)

		// Owned records (all guarded)
		userTaskHandler := handler.NewUserTaskHandler(taskService)
		participationHandler := handler.NewParticipationHandler(participationService)
		v1.Group(func(protected chi.Router) {
			protected.Use(middleware.Authenticator)
			protected.Route("/user-tasks", userTaskHandler.RegisterRoutes)
			protected.Route("/user-experiments", participationHandler.RegisterExperimentRoutes)
			protected.Route("/survey-answers", participationHandler.RegisterSurveyAnswerRoutes)
		})
	})

	return r
}
