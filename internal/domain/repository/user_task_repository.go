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

type UserTaskRepository interface {
	Create(ctx context.Context, link *model.UserTask) error
	ListByUser(ctx context.Context, userID string) ([]model.UserTask, error)
	Delete(ctx context.Context, id string) error
}

type pgUserTaskRepository struct {
	db *sql.DB
}

func NewPgUserTaskRepository(db *sql.DB) UserTaskRepository {
	return &pgUserTaskRepository{db: db}
}

func (r *pgUserTaskRepository) Create(ctx context.Context, link *model.UserTask) error {
	query := `INSERT INTO user_tasks (id, user_id, task_id) VALUES ($1, $2, $3)`
	_, err := r.db.ExecContext(ctx, query, link.ID, link.UserID, link.TaskID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505": // Unique violation: task already assigned
				return fmt.Errorf("task already assigned to user: %w", common.ErrConflict)
			case "23503": // Foreign key violation: user or task missing
				return fmt.Errorf("user or task does not exist: %w", common.ErrNotFound)
			}
		}
		return fmt.Errorf("pgUserTaskRepository.Create: %w", err)
	}
	return nil
}

func (r *pgUserTaskRepository) ListByUser(ctx context.Context, userID string) ([]model.UserTask, error) {
	query := `SELECT id, user_id, task_id, created_at FROM user_tasks WHERE user_id = $1 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("pgUserTaskRepository.ListByUser: %w", err)
	}
	defer rows.Close()

	links := []model.UserTask{}
	for rows.Next() {
		link := model.UserTask{}
		if err := rows.Scan(&link.ID, &link.UserID, &link.TaskID, &link.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgUserTaskRepository.ListByUser scan: %w", err)
		}
		links = append(links, link)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgUserTaskRepository.ListByUser rows: %w", err)
	}
	return links, nil
}

func (r *pgUserTaskRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM user_tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgUserTaskRepository.Delete: %w", err)
	}
	return requireRowAffected(res)
}
