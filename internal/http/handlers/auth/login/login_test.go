package login

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/lamisai/legalcare-admin/internal/models"
	"github.com/lamisai/legalcare-admin/internal/upstream"
)

// MockService реализует интерфейс login.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Login(ctx context.Context, email, password string) (string, *models.Session, error) {
	args := m.Called(ctx, email, password)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*models.Session), args.Error(2)
}

func TestLoginHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		requestBody    interface{}
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешный вход",
			requestBody: models.LoginRequest{
				Email:    "admin@lamis.ai",
				Password: "secret123",
			},
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "admin@lamis.ai", "secret123").
					Return("console-token", &models.Session{
						ID:       "sess-1",
						Employee: models.Employee{ID: "emp-1", Role: models.RoleSuperAdmin},
					}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"token":"console-token"`,
		},
		{
			name:           "некорректный JSON",
			requestBody:    "not a json",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `failed to decode request`,
		},
		{
			name: "пустой email",
			requestBody: models.LoginRequest{
				Email:    "",
				Password: "secret123",
			},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `field Email is a required field`,
		},
		{
			name: "email без формата адреса",
			requestBody: models.LoginRequest{
				Email:    "not-an-email",
				Password: "secret123",
			},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `field Email must be a valid email address`,
		},
		{
			name: "неверные учетные данные",
			requestBody: models.LoginRequest{
				Email:    "admin@lamis.ai",
				Password: "wrong",
			},
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "admin@lamis.ai", "wrong").
					Return("", nil, upstream.ErrUnauthorized)
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `invalid email or password`,
		},
		{
			name: "ошибка backend",
			requestBody: models.LoginRequest{
				Email:    "admin@lamis.ai",
				Password: "secret123",
			},
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "admin@lamis.ai", "secret123").
					Return("", nil, errors.New("backend down"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `could not login`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockService)
			tt.setupMock(service)
			handler := New(logger, service)

			var body bytes.Buffer
			switch v := tt.requestBody.(type) {
			case string:
				body.WriteString(v)
			default:
				assert.NoError(t, json.NewEncoder(&body).Encode(v))
			}

			req := httptest.NewRequest(http.MethodPost, "/api/v1/login", &body)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.expectedBody)
			service.AssertExpectations(t)
		})
	}
}
