package selection

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/lamisai/legalcare-admin/internal/http/middlewarectx"
	"github.com/lamisai/legalcare-admin/internal/models"
)

// MockService реализует интерфейс selection.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) LoadUsers(ctx context.Context, token string) ([]models.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

type MockSaver struct {
	mock.Mock
}

func (m *MockSaver) Save(ctx context.Context, sess *models.Session) error {
	args := m.Called(ctx, sess)
	return args.Error(0)
}

func (m *MockSaver) Delete(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func makeUsers(n int) []models.User {
	users := make([]models.User, 0, n)
	for i := 1; i <= n; i++ {
		users = append(users, models.User{
			ID:                 fmt.Sprintf("u%d", i),
			UserName:           fmt.Sprintf("User %d", i),
			Email:              fmt.Sprintf("user%d@example.com", i),
			SubscriptionStatus: models.StatusActive,
		})
	}
	return users
}

func newSession(st models.TableState) *models.Session {
	sess := &models.Session{
		ID:            "sess-1",
		UpstreamToken: "up-token",
		Employee:      models.Employee{ID: "emp-1", Role: models.RoleSuperAdmin},
	}
	sess.SetTable(models.TableUsers, st)
	return sess
}

func doRequest(t *testing.T, handler *Handler, body string, sess *models.Session) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/selection", bytes.NewBufferString(body))
	if sess != nil {
		ctx := context.WithValue(req.Context(), middlewarectx.SessionKey, sess)
		req = req.WithContext(ctx)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestSelectionHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	newHandler := func(users []models.User) (*Handler, *MockSaver) {
		service := new(MockService)
		service.On("LoadUsers", mock.Anything, "up-token").Return(users, nil)
		saver := new(MockSaver)
		saver.On("Save", mock.Anything, mock.Anything).Return(nil)
		return New(logger, service, saver), saver
	}

	t.Run("переключение одной строки", func(t *testing.T) {
		handler, _ := newHandler(makeUsers(5))
		sess := newSession(models.NewTableState())

		rr := doRequest(t, handler, `{"action":"toggle","id":"u2"}`, sess)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, sess.Table(models.TableUsers).Selected["u2"])

		// повторное переключение снимает выбор
		rr = doRequest(t, handler, `{"action":"toggle","id":"u2"}`, sess)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.False(t, sess.Table(models.TableUsers).Selected["u2"])
	})

	t.Run("выбор строк текущей страницы", func(t *testing.T) {
		handler, _ := newHandler(makeUsers(25))
		st := models.NewTableState()
		st.Page = 2
		st.Selected["u1"] = true
		sess := newSession(st)

		rr := doRequest(t, handler, `{"action":"page","checked":true}`, sess)
		assert.Equal(t, http.StatusOK, rr.Code)

		selected := sess.Table(models.TableUsers).Selected
		// строки второй страницы добавлены, выбор первой не тронут
		assert.Len(t, selected, 11)
		assert.True(t, selected["u1"])
		assert.True(t, selected["u11"])
		assert.True(t, selected["u20"])
	})

	t.Run("снятие выбора со страницы", func(t *testing.T) {
		handler, _ := newHandler(makeUsers(25))
		st := models.NewTableState()
		for i := 1; i <= 25; i++ {
			st.Selected[fmt.Sprintf("u%d", i)] = true
		}
		sess := newSession(st)

		rr := doRequest(t, handler, `{"action":"page","checked":false}`, sess)
		assert.Equal(t, http.StatusOK, rr.Code)

		selected := sess.Table(models.TableUsers).Selected
		// сняты ровно строки первой страницы
		assert.Len(t, selected, 15)
		assert.False(t, selected["u1"])
		assert.True(t, selected["u11"])
	})

	t.Run("выбор всей коллекции", func(t *testing.T) {
		handler, _ := newHandler(makeUsers(25))
		sess := newSession(models.NewTableState())

		rr := doRequest(t, handler, `{"action":"all"}`, sess)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Len(t, sess.Table(models.TableUsers).Selected, 25)
	})

	t.Run("очистка выбора", func(t *testing.T) {
		handler, _ := newHandler(makeUsers(5))
		st := models.NewTableState()
		st.Selected["u1"] = true
		st.Selected["u3"] = true
		sess := newSession(st)

		rr := doRequest(t, handler, `{"action":"clear"}`, sess)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Empty(t, sess.Table(models.TableUsers).Selected)
	})

	t.Run("toggle без id", func(t *testing.T) {
		handler, _ := newHandler(makeUsers(5))
		rr := doRequest(t, handler, `{"action":"toggle"}`, newSession(models.NewTableState()))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("неизвестное действие", func(t *testing.T) {
		handler, _ := newHandler(makeUsers(5))
		rr := doRequest(t, handler, `{"action":"invert"}`, newSession(models.NewTableState()))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), `field Action has an unsupported value`)
	})

	t.Run("без сессии 401", func(t *testing.T) {
		handler, _ := newHandler(makeUsers(5))
		rr := doRequest(t, handler, `{"action":"clear"}`, nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
