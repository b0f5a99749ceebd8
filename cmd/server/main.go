package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"study_platform/internal/api"
	"study_platform/internal/app/service"
	"study_platform/internal/app/worker"
	"study_platform/internal/common/security"
	"study_platform/internal/domain/repository"
	"study_platform/internal/platform/config"
	"study_platform/internal/platform/database"
	"study_platform/internal/platform/mail"
	"study_platform/internal/platform/queue"
	"syscall"
	"time"
)

func main() {
	// 1. Load Configuration
	config.Load()
	fmt.Println("Configuration loaded.")

	// 2. Initialize JWT
	security.InitJWT()
	fmt.Println("JWT initialized.")

	// 3. Initialize Database
	database.Connect()
	defer database.Close()
	fmt.Println("Database connected.")

	// 4. Initialize Redis
	queue.ConnectRedis()
	defer queue.CloseRedis()
	fmt.Println("Redis connected.")

	// 5. Initialize Mailer
	mailer, err := mail.NewMailer(context.Background(),
		config.AppConfig.AWSRegion,
		config.AppConfig.MailFrom,
		config.AppConfig.MailFromName,
		config.AppConfig.AppBaseURL,
	)
	if err != nil {
		log.Fatalf("Could not initialize mailer: %v", err)
	}

	// 6. Initialize Repositories
	userRepo := repository.NewPgUserRepository(database.DB)
	taskRepo := repository.NewPgTaskRepository(database.DB)
	userTaskRepo := repository.NewPgUserTaskRepository(database.DB)
	experimentRepo := repository.NewPgUserExperimentRepository(database.DB)
	answerRepo := repository.NewPgSurveyAnswerRepository(database.DB)

	// 7. Initialize Services
	mailQueue := service.NewMailQueueService(queue.RDB)
	authService := service.NewAuthService(userRepo)
	userService := service.NewUserService(userRepo, mailQueue)
	taskService := service.NewTaskService(taskRepo, userTaskRepo, userRepo)
	participationService := service.NewParticipationService(experimentRepo, answerRepo)

	// 8. Initialize Mail Worker (as a goroutine)
	mailWorker := worker.NewMailWorker(queue.RDB, mailer)
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	go mailWorker.Start(workerCtx)
	fmt.Println("Mail worker started.")

	// 9. Initialize Router & HTTP Server
	router := api.NewRouter(authService, userService, taskService, participationService)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 10. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", config.AppConfig.APIPort, err)
		}
	}()
	log.Println("Server started successfully.")

	<-stop // Wait for interrupt signal

	log.Println("Shutting down server...")
	workerCancel() // Signal worker to stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server and worker stopped gracefully.")
}
