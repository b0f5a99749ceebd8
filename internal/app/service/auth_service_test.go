package service

import (
	"context"
	"study_platform/internal/common"
	"study_platform/internal/common/security"
	"study_platform/internal/domain/model"
	"study_platform/internal/platform/config"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, repo *fakeUserRepo, email, password string, researcher bool) *model.User {
	t.Helper()
	hash, err := security.HashPassword(password)
	require.NoError(t, err)

	user := &model.User{
		ID:             "user-" + email,
		Name:           "Ana",
		LastName:       "Lopez",
		Email:          email,
		HashedPassword: hash,
		Researcher:     researcher,
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestAuthService_ValidateCredentials_Success(t *testing.T) {
	setupTestConfig(t)
	repo := newFakeUserRepo()
	seedUser(t, repo, "ana@example.com", "secretpw", false)
	auth := NewAuthService(repo)

	user, err := auth.ValidateCredentials(context.Background(), "ana@example.com", "secretpw")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.Equal(t, "Ana", user.Name)
}

func TestAuthService_ValidateCredentials_WrongPassword(t *testing.T) {
	setupTestConfig(t)
	repo := newFakeUserRepo()
	seedUser(t, repo, "ana@example.com", "secretpw", false)
	auth := NewAuthService(repo)

	_, err := auth.ValidateCredentials(context.Background(), "ana@example.com", "wrongpw")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestAuthService_ValidateCredentials_UnknownEmail(t *testing.T) {
	setupTestConfig(t)
	auth := NewAuthService(newFakeUserRepo())

	_, err := auth.ValidateCredentials(context.Background(), "nobody@example.com", "pw")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestAuthService_ValidateCredentials_EmptyInput(t *testing.T) {
	setupTestConfig(t)
	auth := NewAuthService(newFakeUserRepo())

	_, err := auth.ValidateCredentials(context.Background(), "", "")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestAuthService_Login_TokenAndExpiry(t *testing.T) {
	setupTestConfig(t)
	repo := newFakeUserRepo()
	user := seedUser(t, repo, "ana@example.com", "secretpw", true)
	auth := NewAuthService(repo)

	before := time.Now().UnixMilli()
	result, err := auth.Login(context.Background(), user)
	require.NoError(t, err)
	after := time.Now().UnixMilli()

	assert.Equal(t, user.ID, result.ID)
	assert.Equal(t, "ana@example.com", result.Email)
	assert.Equal(t, "Ana", result.Name)
	assert.Equal(t, "Lopez", result.LastName)
	assert.True(t, result.Researcher)
	require.NotEmpty(t, result.AccessToken)

	// expiredAt is issuance time plus the configured window (60 s default).
	ttlMs := config.AppConfig.JWTExp.Milliseconds()
	assert.GreaterOrEqual(t, result.ExpiredAt, before+ttlMs)
	assert.LessOrEqual(t, result.ExpiredAt, after+ttlMs)

	// The token's email claim matches the identity.
	parsed, err := jwt.Parse(result.AccessToken, func(tok *jwt.Token) (interface{}, error) {
		return config.AppConfig.JWTKey, nil
	})
	require.NoError(t, err)
	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "ana@example.com", claims["email"])
}
