package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/book-catalog-api/internal/api"
	"github.com/FACorreiaa/book-catalog-api/internal/types"
)

// MockAuthService is a mock implementation of the AuthService interface
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, username, password, name, email string) error {
	args := m.Called(ctx, username, password, name, email)
	return args.Error(0)
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (string, error) {
	args := m.Called(ctx, username, password)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ListUsers(ctx context.Context, page, pageSize int) (*api.PageResponse[types.UserView], error) {
	args := m.Called(ctx, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.PageResponse[types.UserView]), args.Error(1)
}

func postJSON(t *testing.T, handler http.HandlerFunc, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestRegisterHandler(t *testing.T) {
	logger := slog.Default()

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewHandlerImpl(mockService, logger)

		mockService.On("Register", mock.Anything, "alice", "Secret1", "Alice", "alice@example.com").Return(nil).Once()

		rec := postJSON(t, handler.Register, "/auth/register", RegisterRequest{
			Username: "alice", Password: "Secret1", Name: "Alice", Email: "alice@example.com",
		})

		assert.Equal(t, http.StatusOK, rec.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("InvalidInput", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewHandlerImpl(mockService, logger)

		mockService.On("Register", mock.Anything, "", "", "", "").
			Return(fmt.Errorf("required: %w", types.ErrBadRequest)).Once()

		rec := postJSON(t, handler.Register, "/auth/register", RegisterRequest{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Conflict", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewHandlerImpl(mockService, logger)

		mockService.On("Register", mock.Anything, "alice", "Secret1", "", "").
			Return(fmt.Errorf("taken: %w", types.ErrConflict)).Once()

		rec := postJSON(t, handler.Register, "/auth/register", RegisterRequest{
			Username: "alice", Password: "Secret1",
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("BadJSON", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewHandlerImpl(mockService, logger)

		req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader([]byte("{not json")))
		rec := httptest.NewRecorder()
		handler.Register(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockService.AssertNotCalled(t, "Register")
	})
}

func TestLoginHandler(t *testing.T) {
	logger := slog.Default()

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewHandlerImpl(mockService, logger)

		mockService.On("Login", mock.Anything, "alice", "Secret1").Return("signed.jwt.token", nil).Once()

		rec := postJSON(t, handler.Login, "/auth/login", LoginRequest{Username: "alice", Password: "Secret1"})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp LoginResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "signed.jwt.token", resp.Token)
		mockService.AssertExpectations(t)
	})

	t.Run("InvalidCredentials", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewHandlerImpl(mockService, logger)

		mockService.On("Login", mock.Anything, "alice", "wrong").
			Return("", fmt.Errorf("invalid credentials: %w", types.ErrUnauthenticated)).Once()

		rec := postJSON(t, handler.Login, "/auth/login", LoginRequest{Username: "alice", Password: "wrong"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("MissingFields", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewHandlerImpl(mockService, logger)

		mockService.On("Login", mock.Anything, "", "").
			Return("", fmt.Errorf("required: %w", types.ErrBadRequest)).Once()

		rec := postJSON(t, handler.Login, "/auth/login", LoginRequest{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestForgotPasswordHandler(t *testing.T) {
	logger := slog.Default()

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewHandlerImpl(mockService, logger)

		mockService.On("ForgotPassword", mock.Anything, "bob@example.com").Return("Ab3dEf9h", nil).Once()

		rec := postJSON(t, handler.ForgotPassword, "/auth/forgot-password", ForgotPasswordRequest{Email: "bob@example.com"})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp ForgotPasswordResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Ab3dEf9h", resp.TemporaryPassword)
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewHandlerImpl(mockService, logger)

		mockService.On("ForgotPassword", mock.Anything, "ghost@example.com").
			Return("", fmt.Errorf("no such account: %w", types.ErrNotFound)).Once()

		rec := postJSON(t, handler.ForgotPassword, "/auth/forgot-password", ForgotPasswordRequest{Email: "ghost@example.com"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestListUsersHandler(t *testing.T) {
	logger := slog.Default()

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewHandlerImpl(mockService, logger)

		next := 2
		page := &api.PageResponse[types.UserView]{
			Data:        []types.UserView{{ID: 1, Username: "alice", Email: "a***e@example.com"}},
			CurrentPage: 1,
			NextPage:    &next,
		}
		mockService.On("ListUsers", mock.Anything, 1, 1).Return(page, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/auth/users?page=1&pageSize=1", nil)
		rec := httptest.NewRecorder()
		handler.ListUsers(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var got api.PageResponse[types.UserView]
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, 1, got.CurrentPage)
		require.Len(t, got.Data, 1)
		assert.Equal(t, "a***e@example.com", got.Data[0].Email)
	})

	t.Run("MissingParams", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewHandlerImpl(mockService, logger)

		req := httptest.NewRequest(http.MethodGet, "/auth/users", nil)
		rec := httptest.NewRecorder()
		handler.ListUsers(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockService.AssertNotCalled(t, "ListUsers")
	})

	t.Run("PageOutOfRange", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewHandlerImpl(mockService, logger)

		mockService.On("ListUsers", mock.Anything, 99, 10).
			Return(nil, fmt.Errorf("requested page 99 exceeds total pages 1: %w", types.ErrBadRequest)).Once()

		req := httptest.NewRequest(http.MethodGet, "/auth/users?page=99&pageSize=10", nil)
		rec := httptest.NewRecorder()
		handler.ListUsers(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("RepositoryFailure", func(t *testing.T) {
		mockService := new(MockAuthService)
		handler := NewHandlerImpl(mockService, logger)

		mockService.On("ListUsers", mock.Anything, 1, 10).
			Return(nil, fmt.Errorf("get all users: query failed: connection refused")).Once()

		req := httptest.NewRequest(http.MethodGet, "/auth/users?page=1&pageSize=10", nil)
		rec := httptest.NewRecorder()
		handler.ListUsers(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		// Generic message only; no internals leaked.
		assert.NotContains(t, rec.Body.String(), "connection refused")
	})
}
