package service

import (
	"context"
	"study_platform/internal/common"
	"study_platform/internal/domain/model"
	"study_platform/internal/domain/repository"

	"github.com/google/uuid"
)

// ParticipationService covers the records a user owns besides task
// assignments: experiment participations and survey answers.
type ParticipationService struct {
	experimentRepo repository.UserExperimentRepository
	answerRepo     repository.SurveyAnswerRepository
}

func NewParticipationService(experimentRepo repository.UserExperimentRepository, answerRepo repository.SurveyAnswerRepository) *ParticipationService {
	return &ParticipationService{experimentRepo: experimentRepo, answerRepo: answerRepo}
}

type JoinExperimentRequest struct {
	UserID         string `json:"userId"`
	ExperimentName string `json:"experimentName"`
}

type SubmitAnswerRequest struct {
	UserID   string `json:"userId"`
	SurveyID string `json:"surveyId"`
	Answer   string `json:"answer"`
}

func (s *ParticipationService) JoinExperiment(ctx context.Context, req JoinExperimentRequest) (*model.UserExperiment, error) {
	if req.UserID == "" || req.ExperimentName == "" {
		return nil, common.ErrBadRequest
	}

	participation := &model.UserExperiment{
		ID:             uuid.NewString(),
		UserID:         req.UserID,
		ExperimentName: req.ExperimentName,
	}
	if err := s.experimentRepo.Create(ctx, participation); err != nil {
		return nil, common.Errorf("failed to record experiment participation: %w", err)
	}
	return participation, nil
}

func (s *ParticipationService) ListExperiments(ctx context.Context, userID string) ([]model.UserExperiment, error) {
	if userID == "" {
		return nil, common.ErrBadRequest
	}
	return s.experimentRepo.ListByUser(ctx, userID)
}

func (s *ParticipationService) SubmitAnswer(ctx context.Context, req SubmitAnswerRequest) (*model.SurveyAnswer, error) {
	if req.UserID == "" || req.SurveyID == "" || req.Answer == "" {
		return nil, common.ErrBadRequest
	}

	answer := &model.SurveyAnswer{
		ID:       uuid.NewString(),
		UserID:   req.UserID,
		SurveyID: req.SurveyID,
		Answer:   req.Answer,
	}
	if err := s.answerRepo.Create(ctx, answer); err != nil {
		return nil, common.Errorf("failed to record survey answer: %w", err)
	}
	return answer, nil
}

func (s *ParticipationService) ListAnswers(ctx context.Context, userID string) ([]model.SurveyAnswer, error) {
	if userID == "" {
		return nil, common.ErrBadRequest
	}
	return s.answerRepo.ListByUser(ctx, userID)
}
