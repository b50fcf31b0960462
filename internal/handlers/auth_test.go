package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"chat-relay/internal/mocks"
	"chat-relay/internal/models"
	"chat-relay/internal/repositories"
)

func setupAuthRouter(handler *AuthHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/sign_up", handler.SignUp)
	r.POST("/api/login", handler.Login)
	r.POST("/api/logout", handler.Logout)
	return r
}

func TestSignUpSuccess(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	router := setupAuthRouter(NewAuthHandler(users, nil))

	users.On("CreateUser", mock.Anything, "alice@example.com", "alice", mock.AnythingOfType("string")).Return(nil).Once()

	body := bytes.NewBufferString(`{"email":"alice@example.com","username":"alice","password":"secret"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/sign_up", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	users.AssertExpectations(t)
}

func TestSignUpDuplicateEmail(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	router := setupAuthRouter(NewAuthHandler(users, nil))

	users.On("CreateUser", mock.Anything, "alice@example.com", "alice", mock.AnythingOfType("string")).Return(repositories.ErrEmailTaken).Once()

	body := bytes.NewBufferString(`{"email":"alice@example.com","username":"alice","password":"secret"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/sign_up", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	users.AssertExpectations(t)
}

func TestSignUpMissingFields(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	router := setupAuthRouter(NewAuthHandler(users, nil))

	req := httptest.NewRequest(http.MethodPost, "/api/sign_up", bytes.NewBufferString(`{"email":"alice@example.com"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	users.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLoginSuccess(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	router := setupAuthRouter(NewAuthHandler(users, nil))

	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)
	users.On("GetByEmail", mock.Anything, "alice@example.com").Return(models.User{
		Email:        "alice@example.com",
		Username:     "alice",
		PasswordHash: string(hash),
	}, nil).Once()
	users.On("IssueToken", mock.Anything, "alice@example.com").Return("tok-1", nil).Once()

	body := bytes.NewBufferString(`{"email":"alice@example.com","password":"secret"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/login", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		User struct {
			Email    string `json:"email"`
			Username string `json:"username"`
			Token    string `json:"token"`
		} `json:"user"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, "alice", resp.User.Username)
	require.Equal(t, "tok-1", resp.User.Token)
	users.AssertExpectations(t)
}

func TestLoginUnknownUser(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	router := setupAuthRouter(NewAuthHandler(users, nil))

	users.On("GetByEmail", mock.Anything, "ghost@example.com").Return(models.User{}, repositories.ErrUserNotFound).Once()

	body := bytes.NewBufferString(`{"email":"ghost@example.com","password":"secret"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/login", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	router := setupAuthRouter(NewAuthHandler(users, nil))

	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)
	users.On("GetByEmail", mock.Anything, "alice@example.com").Return(models.User{
		Email:        "alice@example.com",
		Username:     "alice",
		PasswordHash: string(hash),
	}, nil).Once()

	body := bytes.NewBufferString(`{"email":"alice@example.com","password":"wrong"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/login", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	users.AssertNotCalled(t, "IssueToken", mock.Anything, mock.Anything)
}

func TestLogoutClearsToken(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	router := setupAuthRouter(NewAuthHandler(users, nil))

	users.On("ClearToken", mock.Anything, "tok-1").Return(nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	req.Header.Set("Authorization", "tok-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	users.AssertExpectations(t)
}

func TestLogoutWithoutTokenStillOK(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	router := setupAuthRouter(NewAuthHandler(users, nil))

	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	users.AssertNotCalled(t, "ClearToken", mock.Anything, mock.Anything)
}
