package handler

import (
	"context"
	"net/http"
	"study_platform/internal/common"
	"study_platform/internal/common/security"
	"study_platform/internal/domain/model"
	"study_platform/internal/platform/config"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/require"
)

// memUserRepo is an in-memory UserRepository for handler tests.
type memUserRepo struct {
	users map[string]*model.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*model.User{}}
}

func (m *memUserRepo) Create(ctx context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return common.ErrConflict
		}
	}
	stored := *user
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	m.users[user.ID] = &stored
	return nil
}

func (m *memUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (m *memUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, common.ErrNotFound
}

func (m *memUserRepo) FindAll(ctx context.Context) ([]model.User, error) {
	users := []model.User{}
	for _, u := range m.users {
		users = append(users, *u)
	}
	return users, nil
}

func (m *memUserRepo) Update(ctx context.Context, user *model.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return common.ErrNotFound
	}
	updated := *user
	m.users[user.ID] = &updated
	return nil
}

func (m *memUserRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.users[id]; !ok {
		return common.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *memUserRepo) SetRecoveryToken(ctx context.Context, id, token string, expiration time.Time) error {
	user, ok := m.users[id]
	if !ok {
		return common.ErrNotFound
	}
	user.RecoveryPasswordToken = &token
	exp := expiration
	user.RecoveryPasswordTokenExpirationDate = &exp
	return nil
}

func (m *memUserRepo) UpdatePassword(ctx context.Context, id, recoveryToken, hashedPassword string) error {
	user, ok := m.users[id]
	if !ok {
		return common.ErrNotFound
	}
	if user.RecoveryPasswordToken == nil || *user.RecoveryPasswordToken != recoveryToken {
		return common.ErrNotFound
	}
	user.HashedPassword = hashedPassword
	user.RecoveryPasswordToken = nil
	user.RecoveryPasswordTokenExpirationDate = nil
	return nil
}

// memMailQueue drops jobs silently.
type memMailQueue struct{}

func (memMailQueue) EnqueueMail(ctx context.Context, job model.MailJob) error { return nil }

func setupHandlerConfig(t *testing.T) {
	t.Helper()
	config.AppConfig = &config.Config{
		JWTKey:                []byte("handler-test-secret"),
		JWTExp:                60 * time.Second,
		RecoveryTokenTTL:      time.Hour,
		RecoveryMailQueueName: "test_mail_queue",
	}
	security.InitJWT()
}

// newTestRouter mounts routes the way the API router does, including the
// token verifier the guard depends on.
func newTestRouter(register func(chi.Router)) http.Handler {
	r := chi.NewRouter()
	r.Use(jwtauth.Verifier(security.TokenAuth))
	register(r)
	return r
}

func seedStoredUser(t *testing.T, repo *memUserRepo, email, password string, researcher bool) *model.User {
	t.Helper()
	hash, err := security.HashPassword(password)
	require.NoError(t, err)

	user := &model.User{
		ID:             "id-" + email,
		Name:           "Ana",
		LastName:       "Lopez",
		Email:          email,
		HashedPassword: hash,
		Researcher:     researcher,
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func bearerToken(t *testing.T, email string) string {
	t.Helper()
	token, _, err := security.GenerateToken(email)
	require.NoError(t, err)
	return "Bearer " + token
}
