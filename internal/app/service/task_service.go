package service

import (
	"context"
	"study_platform/internal/common"
	"study_platform/internal/domain/model"
	"study_platform/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type TaskService struct {
	taskRepo     repository.TaskRepository
	userTaskRepo repository.UserTaskRepository
	userRepo     repository.UserRepository
}

func NewTaskService(taskRepo repository.TaskRepository, userTaskRepo repository.UserTaskRepository, userRepo repository.UserRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo, userTaskRepo: userTaskRepo, userRepo: userRepo}
}

type CreateTaskRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type AssignTaskRequest struct {
	UserID string `json:"userId"`
	TaskID string `json:"taskId"`
}

// Create registers a new task. Only researchers may define tasks.
func (s *TaskService) Create(ctx context.Context, requesterEmail string, req CreateTaskRequest) (*model.Task, error) {
	if err := s.requireResearcher(ctx, requesterEmail); err != nil {
		return nil, err
	}
	if req.Name == "" {
		return nil, common.ErrBadRequest
	}

	task := &model.Task{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Slug:        slug.Make(req.Name),
		Description: req.Description,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, common.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

func (s *TaskService) FindBySlug(ctx context.Context, taskSlug string) (*model.Task, error) {
	return s.taskRepo.FindBySlug(ctx, taskSlug)
}

func (s *TaskService) FindAll(ctx context.Context) ([]model.Task, error) {
	return s.taskRepo.FindAll(ctx)
}

func (s *TaskService) Remove(ctx context.Context, requesterEmail, taskSlug string) error {
	if err := s.requireResearcher(ctx, requesterEmail); err != nil {
		return err
	}
	return s.taskRepo.Delete(ctx, taskSlug)
}

func (s *TaskService) requireResearcher(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return common.ErrUnauthorized
	}
	if !user.Researcher {
		return common.ErrForbidden
	}
	return nil
}

// Assign links a task to a user.
func (s *TaskService) Assign(ctx context.Context, req AssignTaskRequest) (*model.UserTask, error) {
	if req.UserID == "" || req.TaskID == "" {
		return nil, common.ErrBadRequest
	}

	link := &model.UserTask{
		ID:     uuid.NewString(),
		UserID: req.UserID,
		TaskID: req.TaskID,
	}
	if err := s.userTaskRepo.Create(ctx, link); err != nil {
		return nil, common.Errorf("failed to assign task: %w", err)
	}
	return link, nil
}

func (s *TaskService) ListAssignments(ctx context.Context, userID string) ([]model.UserTask, error) {
	if userID == "" {
		return nil, common.ErrBadRequest
	}
	return s.userTaskRepo.ListByUser(ctx, userID)
}

func (s *TaskService) Unassign(ctx context.Context, id string) error {
	return s.userTaskRepo.Delete(ctx, id)
}
