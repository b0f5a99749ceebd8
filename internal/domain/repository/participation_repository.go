package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"study_platform/internal/common"
	"study_platform/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type UserExperimentRepository interface {
	Create(ctx context.Context, participation *model.UserExperiment) error
	ListByUser(ctx context.Context, userID string) ([]model.UserExperiment, error)
}

type SurveyAnswerRepository interface {
	Create(ctx context.Context, answer *model.SurveyAnswer) error
	ListByUser(ctx context.Context, userID string) ([]model.SurveyAnswer, error)
}

type pgUserExperimentRepository struct {
	db *sql.DB
}

func NewPgUserExperimentRepository(db *sql.DB) UserExperimentRepository {
	return &pgUserExperimentRepository{db: db}
}

func (r *pgUserExperimentRepository) Create(ctx context.Context, participation *model.UserExperiment) error {
	query := `INSERT INTO user_experiments (id, user_id, experiment_name) VALUES ($1, $2, $3)`
	_, err := r.db.ExecContext(ctx, query, participation.ID, participation.UserID, participation.ExperimentName)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return fmt.Errorf("user does not exist: %w", common.ErrNotFound)
		}
		return fmt.Errorf("pgUserExperimentRepository.Create: %w", err)
	}
	return nil
}

func (r *pgUserExperimentRepository) ListByUser(ctx context.Context, userID string) ([]model.UserExperiment, error) {
	query := `SELECT id, user_id, experiment_name, created_at FROM user_experiments WHERE user_id = $1 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("pgUserExperimentRepository.ListByUser: %w", err)
	}
	defer rows.Close()

	participations := []model.UserExperiment{}
	for rows.Next() {
		p := model.UserExperiment{}
		if err := rows.Scan(&p.ID, &p.UserID, &p.ExperimentName, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgUserExperimentRepository.ListByUser scan: %w", err)
		}
		participations = append(participations, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgUserExperimentRepository.ListByUser rows: %w", err)
	}
	return participations, nil
}

type pgSurveyAnswerRepository struct {
	db *sql.DB
}

func NewPgSurveyAnswerRepository(db *sql.DB) SurveyAnswerRepository {
	return &pgSurveyAnswerRepository{db: db}
}

func (r *pgSurveyAnswerRepository) Create(ctx context.Context, answer *model.SurveyAnswer) error {
	query := `INSERT INTO survey_answers (id, user_id, survey_id, answer) VALUES ($1, $2, $3, $4)`
	_, err := r.db.ExecContext(ctx, query, answer.ID, answer.UserID, answer.SurveyID, answer.Answer)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return fmt.Errorf("user does not exist: %w", common.ErrNotFound)
		}
		return fmt.Errorf("pgSurveyAnswerRepository.Create: %w", err)
	}
	return nil
}

func (r *pgSurveyAnswerRepository) ListByUser(ctx context.Context, userID string) ([]model.SurveyAnswer, error) {
	query := `SELECT id, user_id, survey_id, answer, created_at FROM survey_answers WHERE user_id = $1 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("pgSurveyAnswerRepository.ListByUser: %w", err)
	}
	defer rows.Close()

	answers := []model.SurveyAnswer{}
	for rows.Next() {
		a := model.SurveyAnswer{}
		if err := rows.Scan(&a.ID, &a.UserID, &a.SurveyID, &a.Answer, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgSurveyAnswerRepository.ListByUser scan: %w", err)
		}
		answers = append(answers, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgSurveyAnswerRepository.ListByUser rows: %w", err)
	}
	return answers, nil
}
