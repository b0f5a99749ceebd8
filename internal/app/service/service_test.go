package service

import (
	"context"
	"study_platform/internal/common"
	"study_platform/internal/common/security"
	"study_platform/internal/domain/model"
	"study_platform/internal/platform/config"
	"testing"
	"time"
)

// setupTestConfig installs an in-memory configuration and signing key so
// services can run without env files or external backends.
func setupTestConfig(t *testing.T) {
	t.Helper()
	config.AppConfig = &config.Config{
		JWTKey:                []byte("test-secret"),
		JWTExp:                60 * time.Second,
		RecoveryTokenTTL:      time.Hour,
		RecoveryMailQueueName: "test_mail_queue",
	}
	security.InitJWT()
}

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	users map[string]*model.User // by ID

	failWith error // when set, every call fails with this error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*model.User{}}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	if f.failWith != nil {
		return f.failWith
	}
	for _, u := range f.users {
		if u.Email == user.Email {
			return common.ErrConflict
		}
	}
	stored := *user
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	user, ok := f.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	for _, u := range f.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeUserRepo) FindAll(ctx context.Context) ([]model.User, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	users := []model.User{}
	for _, u := range f.users {
		users = append(users, *u)
	}
	return users, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *model.User) error {
	if f.failWith != nil {
		return f.failWith
	}
	stored, ok := f.users[user.ID]
	if !ok {
		return common.ErrNotFound
	}
	for id, u := range f.users {
		if id != user.ID && u.Email == user.Email {
			return common.ErrConflict
		}
	}
	updated := *user
	updated.RecoveryPasswordToken = stored.RecoveryPasswordToken
	updated.RecoveryPasswordTokenExpirationDate = stored.RecoveryPasswordTokenExpirationDate
	updated.UpdatedAt = time.Now()
	f.users[user.ID] = &updated
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id string) error {
	if f.failWith != nil {
		return f.failWith
	}
	if _, ok := f.users[id]; !ok {
		return common.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) SetRecoveryToken(ctx context.Context, id, token string, expiration time.Time) error {
	if f.failWith != nil {
		return f.failWith
	}
	user, ok := f.users[id]
	if !ok {
		return common.ErrNotFound
	}
	user.RecoveryPasswordToken = &token
	exp := expiration
	user.RecoveryPasswordTokenExpirationDate = &exp
	return nil
}

func (f *fakeUserRepo) UpdatePassword(ctx context.Context, id, recoveryToken, hashedPassword string) error {
	if f.failWith != nil {
		return f.failWith
	}
	user, ok := f.users[id]
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

// fakeMailQueue records enqueued jobs.
type fakeMailQueue struct {
	jobs     []model.MailJob
	failWith error
}

func (f *fakeMailQueue) EnqueueMail(ctx context.Context, job model.MailJob) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.jobs = append(f.jobs, job)
	return nil
}
