package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"taskflow/internal/handler"
	"taskflow/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	user := args.Get(0)
	if user == nil {
		return nil, args.Error(1)
	}
	return user.(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	user := args.Get(0)
	if user == nil {
		return nil, args.Error(1)
	}
	return user.(*model.User), args.Error(1)
}

func setupTest() (*gin.Engine, *MockUserRepository) {
	gin.SetMode(gin.TestMode)
	r := gin.Default()
	mockRepo := new(MockUserRepository)
	userHandler := handler.NewUserHandler(mockRepo, "test-secret", time.Hour)

	r.POST("/api/auth/register", userHandler.Register)
	r.POST("/api/auth/login", userHandler.Login)
	return r, mockRepo
}

func postJSON(r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	jsonBody, _ := json.Marshal(body)
	req, _ := http.NewRequest("POST", path, bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestRegister_Success(t *testing.T) {
	router, mockRepo := setupTest()

	mockRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(nil, nil)
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

	resp := postJSON(router, "/api/auth/register", handler.RegisterRequest{
		Name:     "Test User",
		Email:    "Test@Example.com",
		Password: "password123",
	})

	assert.Equal(t, http.StatusCreated, resp.Code)

	var response handler.AuthResponse
	err := json.Unmarshal(resp.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.True(t, response.Success)
	assert.NotEmpty(t, response.Token)
	assert.Equal(t, "Test User", response.User.Name)
	assert.Equal(t, "test@example.com", response.User.Email)
	assert.Equal(t, model.RoleMember, response.User.Role)

	mockRepo.AssertExpectations(t)
}

func TestRegister_EmailTaken(t *testing.T) {
	router, mockRepo := setupTest()

	existing := &model.User{ID: uuid.New(), Email: "test@example.com"}
	mockRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(existing, nil)

	resp := postJSON(router, "/api/auth/register", handler.RegisterRequest{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "password123",
	})

	assert.Equal(t, http.StatusConflict, resp.Code)
	mockRepo.AssertExpectations(t)
}

func TestRegister_InvalidPayload(t *testing.T) {
	router, _ := setupTest()

	resp := postJSON(router, "/api/auth/register", handler.RegisterRequest{
		Name:     "Test User",
		Email:    "not-an-email",
		Password: "short",
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestLogin_Success(t *testing.T) {
	router, mockRepo := setupTest()

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &model.User{
		ID:             uuid.New(),
		Email:          "test@example.com",
		HashedPassword: string(hashed),
		Name:           "Test User",
		Role:           model.RoleMember,
		IsActive:       true,
	}
	mockRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(user, nil)

	resp := postJSON(router, "/api/auth/login", handler.LoginRequest{
		Email:    "test@example.com",
		Password: "password123",
	})

	assert.Equal(t, http.StatusOK, resp.Code)

	var response handler.AuthResponse
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &response))
	assert.NotEmpty(t, response.Token)
	assert.Equal(t, user.ID.String(), response.User.ID)
	mockRepo.AssertExpectations(t)
}

func TestLogin_WrongPassword(t *testing.T) {
	router, mockRepo := setupTest()

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &model.User{
		ID:             uuid.New(),
		Email:          "test@example.com",
		HashedPassword: string(hashed),
		IsActive:       true,
	}
	mockRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(user, nil)

	resp := postJSON(router, "/api/auth/login", handler.LoginRequest{
		Email:    "test@example.com",
		Password: "wrong-password",
	})

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestLogin_UnknownEmail(t *testing.T) {
	router, mockRepo := setupTest()

	mockRepo.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, nil)

	resp := postJSON(router, "/api/auth/login", handler.LoginRequest{
		Email:    "ghost@example.com",
		Password: "password123",
	})

	// Same answer as a wrong password, so emails cannot be probed.
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestLogin_DeactivatedAccount(t *testing.T) {
	router, mockRepo := setupTest()

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &model.User{
		ID:             uuid.New(),
		Email:          "test@example.com",
		HashedPassword: string(hashed),
		IsActive:       false,
	}
	mockRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(user, nil)

	resp := postJSON(router, "/api/auth/login", handler.LoginRequest{
		Email:    "test@example.com",
		Password: "password123",
	})

	assert.Equal(t, http.StatusForbidden, resp.Code)
}
