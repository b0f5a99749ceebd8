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

type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	FindBySlug(ctx context.Context, slug string) (*model.Task, error)
	FindAll(ctx context.Context) ([]model.Task, error)
	Delete(ctx context.Context, slug string) error
}

type pgTaskRepository struct {
	db *sql.DB
}

func NewPgTaskRepository(db *sql.DB) TaskRepository {
	return &pgTaskRepository{db: db}
}

func (r *pgTaskRepository) Create(ctx context.Context, task *model.Task) error {
	query := `INSERT INTO tasks (id, name, slug, description) VALUES ($1, $2, $3, $4)`
	_, err := r.db.ExecContext(ctx, query, task.ID, task.Name, task.Slug, task.Description)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("task with given slug already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgTaskRepository.Create: %w", err)
	}
	return nil
}

func (r *pgTaskRepository) FindBySlug(ctx context.Context, slug string) (*model.Task, error) {
	query := `SELECT id, name, slug, description, created_at FROM tasks WHERE slug = $1`
	task := &model.Task{}
	err := r.db.QueryRowContext(ctx, query, slug).Scan(
		&task.ID, &task.Name, &task.Slug, &task.Description, &task.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgTaskRepository.FindBySlug: %w", err)
	}
	return task, nil
}

func (r *pgTaskRepository) FindAll(ctx context.Context) ([]model.Task, error) {
	query := `SELECT id, name, slug, description, created_at FROM tasks ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgTaskRepository.FindAll: %w", err)
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		task := model.Task{}
		if err := rows.Scan(&task.ID, &task.Name, &task.Slug, &task.Description, &task.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgTaskRepository.FindAll scan: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgTaskRepository.FindAll rows: %w", err)
	}
	return tasks, nil
}

func (r *pgTaskRepository) Delete(ctx context.Context, slug string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE slug = $1`, slug)
	if err != nil {
		return fmt.Errorf("pgTaskRepository.Delete: %w", err)
	}
	return requireRowAffected(res)
}
