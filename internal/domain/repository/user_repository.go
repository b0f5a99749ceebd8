package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"study_platform/internal/common"
	"study_platform/internal/domain/model"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindAll(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id string) error
	SetRecoveryToken(ctx context.Context, id, token string, expiration time.Time) error
	// UpdatePassword replaces the password hash and consumes the pending
	// recovery token in the same statement. The statement only matches while
	// the given token is still the stored one, so a token rotated after the
	// caller's read surfaces as ErrNotFound instead of being consumed.
	UpdatePassword(ctx context.Context, id, recoveryToken, hashedPassword string) error
}

const userColumns = `id, name, last_name, email, hashed_password, birth_date,
	recovery_password_token, recovery_password_token_expiration_date,
	researcher, created_at, updated_at`

type pgUserRepository struct {
	db *sql.DB
}

func NewPgUserRepository(db *sql.DB) UserRepository {
	return &pgUserRepository{db: db}
}

func (r *pgUserRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (id, name, last_name, email, hashed_password, birth_date, researcher)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Name, user.LastName, user.Email, user.HashedPassword, user.BirthDate, user.Researcher)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique constraint violation
			return fmt.Errorf("user with given email already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgUserRepository.Create: %w", err)
	}
	return nil
}

func (r *pgUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := r.scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgUserRepository.FindByID: %w", err)
	}
	return user, nil
}

func (r *pgUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user, err := r.scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgUserRepository.FindByEmail: %w", err)
	}
	return user, nil
}

func (r *pgUserRepository) FindAll(ctx context.Context) ([]model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgUserRepository.FindAll: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		user, err := r.scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("pgUserRepository.FindAll scan: %w", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgUserRepository.FindAll rows: %w", err)
	}
	return users, nil
}

func (r *pgUserRepository) Update(ctx context.Context, user *model.User) error {
	query := `UPDATE users
	          SET name = $2, last_name = $3, email = $4, hashed_password = $5,
	              birth_date = $6, researcher = $7, updated_at = now()
	          WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query,
		user.ID, user.Name, user.LastName, user.Email, user.HashedPassword, user.BirthDate, user.Researcher)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("user with given email already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgUserRepository.Update: %w", err)
	}
	return requireRowAffected(res)
}

func (r *pgUserRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgUserRepository.Delete: %w", err)
	}
	return requireRowAffected(res)
}

func (r *pgUserRepository) SetRecoveryToken(ctx context.Context, id, token string, expiration time.Time) error {
	query := `UPDATE users
	          SET recovery_password_token = $2,
	              recovery_password_token_expiration_date = $3,
	              updated_at = now()
	          WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, token, expiration)
	if err != nil {
		return fmt.Errorf("pgUserRepository.SetRecoveryToken: %w", err)
	}
	return requireRowAffected(res)
}

func (r *pgUserRepository) UpdatePassword(ctx context.Context, id, recoveryToken, hashedPassword string) error {
	query := `UPDATE users
	          SET hashed_password = $3,
	              recovery_password_token = NULL,
	              recovery_password_token_expiration_date = NULL,
	              updated_at = now()
	          WHERE id = $1 AND recovery_password_token = $2`
	res, err := r.db.ExecContext(ctx, query, id, recoveryToken, hashedPassword)
	if err != nil {
		return fmt.Errorf("pgUserRepository.UpdatePassword: %w", err)
	}
	return requireRowAffected(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *pgUserRepository) scanUser(row rowScanner) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(
		&user.ID, &user.Name, &user.LastName, &user.Email, &user.HashedPassword,
		&user.BirthDate, &user.RecoveryPasswordToken, &user.RecoveryPasswordTokenExpirationDate,
		&user.Researcher, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func requireRowAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}
