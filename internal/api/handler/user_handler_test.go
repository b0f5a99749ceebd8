package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"study_platform/internal/app/service"
	"study_platform/internal/common/security"
	"study_platform/internal/domain/model"
	"study_platform/internal/platform/config"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserTestServer(t *testing.T) (http.Handler, *memUserRepo) {
	t.Helper()
	setupHandlerConfig(t)
	repo := newMemUserRepo()
	userService := service.NewUserService(repo, memMailQueue{})
	h := NewUserHandler(userService)
	router := newTestRouter(func(r chi.Router) {
		r.Route("/users2", h.RegisterRoutes)
	})
	return router, repo
}

func TestUserHandler_Create(t *testing.T) {
	router, _ := newUserTestServer(t)

	body := bytes.NewBufferString(`{"name":" Ana ","lastName":" Lopez ","email":" a@b.com ","password":"pw","researcher":false}`)
	req := httptest.NewRequest(http.MethodPost, "/users2/", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var view model.UserView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, "Ana", view.Name)
	assert.Equal(t, "Lopez", view.LastName)
	assert.Equal(t, "a@b.com", view.Email)
	assert.False(t, view.Researcher)

	// The response never leaks the password.
	assert.NotContains(t, rec.Body.String(), "password")
	assert.NotContains(t, rec.Body.String(), "pw")
}

func TestUserHandler_Create_DuplicateEmail(t *testing.T) {
	router, repo := newUserTestServer(t)
	seedStoredUser(t, repo, "a@b.com", "pw", false)

	body := bytes.NewBufferString(`{"name":"Ana","lastName":"Lopez","email":"a@b.com","password":"pw"}`)
	req := httptest.NewRequest(http.MethodPost, "/users2/", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestUserHandler_FindAll_RequiresToken(t *testing.T) {
	router, _ := newUserTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/users2/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUserHandler_FindAll_RejectsGarbageToken(t *testing.T) {
	router, _ := newUserTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/users2/", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUserHandler_FindAll_RejectsExpiredToken(t *testing.T) {
	router, repo := newUserTestServer(t)
	seedStoredUser(t, repo, "a@b.com", "pw", false)

	// Issue a token that is already past its expiry.
	ttl := config.AppConfig.JWTExp
	config.AppConfig.JWTExp = -time.Minute
	token, _, err := security.GenerateToken("a@b.com")
	config.AppConfig.JWTExp = ttl
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/users2/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUserHandler_FindAll_List(t *testing.T) {
	router, repo := newUserTestServer(t)
	seedStoredUser(t, repo, "a@b.com", "pw", false)
	seedStoredUser(t, repo, "c@d.com", "pw", true)

	req := httptest.NewRequest(http.MethodGet, "/users2/", nil)
	req.Header.Set("Authorization", bearerToken(t, "a@b.com"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var views []model.UserView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &views))
	assert.Len(t, views, 2)
}

func TestUserHandler_FindAll_EmailFilterHit(t *testing.T) {
	router, repo := newUserTestServer(t)
	seedStoredUser(t, repo, "a@b.com", "pw", false)

	req := httptest.NewRequest(http.MethodGet, "/users2/?email=a@b.com", nil)
	req.Header.Set("Authorization", bearerToken(t, "a@b.com"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var view model.UserView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, "a@b.com", view.Email)
}

func TestUserHandler_FindAll_EmailFilterMiss_LegacyPayload(t *testing.T) {
	router, repo := newUserTestServer(t)
	seedStoredUser(t, repo, "a@b.com", "pw", false)

	req := httptest.NewRequest(http.MethodGet, "/users2/?email=nonexistent@x.com", nil)
	req.Header.Set("Authorization", bearerToken(t, "a@b.com"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"User not found","statusCode":404}`, rec.Body.String())
}

func TestUserHandler_FindOne(t *testing.T) {
	router, repo := newUserTestServer(t)
	user := seedStoredUser(t, repo, "a@b.com", "pw", false)

	req := httptest.NewRequest(http.MethodGet, "/users2/"+user.ID, nil)
	req.Header.Set("Authorization", bearerToken(t, "a@b.com"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var view model.UserView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, user.ID, view.ID)
}

func TestUserHandler_FindOne_NotFound(t *testing.T) {
	router, repo := newUserTestServer(t)
	seedStoredUser(t, repo, "a@b.com", "pw", false)

	req := httptest.NewRequest(http.MethodGet, "/users2/missing-id", nil)
	req.Header.Set("Authorization", bearerToken(t, "a@b.com"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUserHandler_UpdateAndRemove(t *testing.T) {
	router, repo := newUserTestServer(t)
	user := seedStoredUser(t, repo, "a@b.com", "pw", false)

	body := bytes.NewBufferString(`{"name":"Renamed"}`)
	req := httptest.NewRequest(http.MethodPatch, "/users2/"+user.ID, body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var view model.UserView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, "Renamed", view.Name)
	assert.Equal(t, "Lopez", view.LastName)

	req = httptest.NewRequest(http.MethodDelete, "/users2/"+user.ID, nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"deleted":true}`, rec.Body.String())
}

func TestUserHandler_ForgotAndResetPassword(t *testing.T) {
	router, repo := newUserTestServer(t)
	user := seedStoredUser(t, repo, "a@b.com", "pw", false)

	req := httptest.NewRequest(http.MethodPost, "/users2/forgot-password", bytes.NewBufferString(`{"email":"a@b.com"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	stored := repo.users[user.ID]
	require.NotNil(t, stored.RecoveryPasswordToken)
	token := *stored.RecoveryPasswordToken

	resetBody, err := json.Marshal(map[string]string{
		"email":                 "a@b.com",
		"recoveryPasswordToken": token,
		"newPassword":           "freshpw",
	})
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodPost, "/users2/reset-password", bytes.NewBuffer(resetBody))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Nil(t, repo.users[user.ID].RecoveryPasswordToken)
}

func TestUserHandler_ForgotPassword_UnknownEmailIsOpaque(t *testing.T) {
	router, repo := newUserTestServer(t)
	seedStoredUser(t, repo, "a@b.com", "pw", false)

	// Same response for known and unknown addresses; the endpoint must not
	// confirm whether an account exists.
	req := httptest.NewRequest(http.MethodPost, "/users2/forgot-password", bytes.NewBufferString(`{"email":"nobody@x.com"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestUserHandler_ResetPassword_BadToken(t *testing.T) {
	router, repo := newUserTestServer(t)
	seedStoredUser(t, repo, "a@b.com", "pw", false)

	body := bytes.NewBufferString(`{"email":"a@b.com","recoveryPasswordToken":"bogus","newPassword":"freshpw"}`)
	req := httptest.NewRequest(http.MethodPost, "/users2/reset-password", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUserHandler_AddRecoveryToken(t *testing.T) {
	router, repo := newUserTestServer(t)
	user := seedStoredUser(t, repo, "a@b.com", "pw", false)

	req := httptest.NewRequest(http.MethodPatch, "/users2/?email=a@b.com", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var view model.RecoveryTokenView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, user.ID, view.ID)
	require.NotNil(t, view.RecoveryPasswordToken)
	assert.NotEmpty(t, *view.RecoveryPasswordToken)
	require.NotNil(t, view.RecoveryPasswordTokenExpirationDate)
}

func TestUserHandler_AddRecoveryToken_MissingEmail(t *testing.T) {
	router, _ := newUserTestServer(t)

	req := httptest.NewRequest(http.MethodPatch, "/users2/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
