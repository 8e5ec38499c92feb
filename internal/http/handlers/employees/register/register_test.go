package register

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lamisai/legalcare-admin/internal/http/middlewarectx"
	"github.com/lamisai/legalcare-admin/internal/models"
	"github.com/lamisai/legalcare-admin/internal/policy"
	"github.com/lamisai/legalcare-admin/internal/upstream"
)

// MockService реализует интерфейс register.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) CreateManager(ctx context.Context, token string, actor models.Employee, reqParams models.CreateManagerRequest) (*models.Employee, error) {
	args := m.Called(ctx, token, actor, reqParams)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Employee), args.Error(1)
}

type MockDeleter struct {
	mock.Mock
}

func (m *MockDeleter) Delete(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func TestRegisterHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	superAdminSession := &models.Session{
		ID:            "sess-1",
		UpstreamToken: "up-token",
		Employee:      models.Employee{ID: "sa-1", Role: models.RoleSuperAdmin},
	}

	tests := []struct {
		name           string
		requestBody    interface{}
		session        *models.Session
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешное создание менеджера",
			requestBody: models.CreateManagerRequest{
				UserName: "New Manager",
				Email:    "new@lamis.ai",
				Password: "secret123",
			},
			session: superAdminSession,
			setupMock: func(m *MockService) {
				m.On("CreateManager", mock.Anything, "up-token", mock.Anything,
					mock.AnythingOfType("models.CreateManagerRequest")).
					Return(&models.Employee{ID: "mgr-2", Email: "new@lamis.ai", Role: models.RoleManager}, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"mgr-2"`,
		},
		{
			name: "пароль короче восьми символов",
			requestBody: models.CreateManagerRequest{
				UserName: "New Manager",
				Email:    "new@lamis.ai",
				Password: "short",
			},
			session:        superAdminSession,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `field Password is too short`,
		},
		{
			name: "некорректный email",
			requestBody: models.CreateManagerRequest{
				UserName: "New Manager",
				Email:    "bad-email",
				Password: "secret123",
			},
			session:        superAdminSession,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `field Email must be a valid email address`,
		},
		{
			name:           "некорректный JSON",
			requestBody:    "not a json",
			session:        superAdminSession,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `failed to decode request`,
		},
		{
			name: "менеджер получает 403",
			requestBody: models.CreateManagerRequest{
				UserName: "New Manager",
				Email:    "new@lamis.ai",
				Password: "secret123",
			},
			session: &models.Session{
				ID:            "sess-2",
				UpstreamToken: "up-token",
				Employee:      models.Employee{ID: "mgr-1", Role: models.RoleManager},
			},
			setupMock: func(m *MockService) {
				m.On("CreateManager", mock.Anything, "up-token", mock.Anything,
					mock.AnythingOfType("models.CreateManagerRequest")).
					Return(nil, policy.ErrPermissionDenied)
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `manager creation not permitted`,
		},
		{
			name: "без сессии 401",
			requestBody: models.CreateManagerRequest{
				UserName: "New Manager",
				Email:    "new@lamis.ai",
				Password: "secret123",
			},
			session:        nil,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `unauthorized`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockService)
			tt.setupMock(service)
			handler := New(logger, service, new(MockDeleter))

			var body bytes.Buffer
			switch v := tt.requestBody.(type) {
			case string:
				body.WriteString(v)
			default:
				assert.NoError(t, json.NewEncoder(&body).Encode(v))
			}

			req := httptest.NewRequest(http.MethodPost, "/api/v1/employees", &body)
			if tt.session != nil {
				ctx := context.WithValue(req.Context(), middlewarectx.SessionKey, tt.session)
				req = req.WithContext(ctx)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.expectedBody)
			service.AssertExpectations(t)
		})
	}

	t.Run("отвергнутый backend токен завершает сессию", func(t *testing.T) {
		service := new(MockService)
		service.On("CreateManager", mock.Anything, "up-token", mock.Anything,
			mock.AnythingOfType("models.CreateManagerRequest")).
			Return(nil, fmt.Errorf("create manager: %w", upstream.ErrUnauthorized))
		deleter := new(MockDeleter)
		deleter.On("Delete", mock.Anything, "sess-1").Return(nil)
		handler := New(logger, service, deleter)

		var body bytes.Buffer
		require.NoError(t, json.NewEncoder(&body).Encode(models.CreateManagerRequest{
			UserName: "New Manager",
			Email:    "new@lamis.ai",
			Password: "secret123",
		}))

		req := httptest.NewRequest(http.MethodPost, "/api/v1/employees", &body)
		ctx := context.WithValue(req.Context(), middlewarectx.SessionKey, superAdminSession)
		req = req.WithContext(ctx)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Contains(t, rr.Body.String(), "session expired")
		deleter.AssertExpectations(t)
	})
}
