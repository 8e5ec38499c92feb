// Package middlewarectx содержит HTTP middleware консоли: проверку
// сессионного токена, требование роли супер-администратора и ограничение
// частоты запросов.
//
// SessionMiddleware проверяет наличие и валидность сессионного JWT
// в заголовке Authorization, загружает сессию из хранилища и добавляет
// её в контекст запроса для дальнейшего использования в обработчиках.
//
// В случае ошибки проверки возвращает HTTP 401 Unauthorized с сообщением об ошибке.
package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/lamisai/legalcare-admin/internal/http/response"
	"github.com/lamisai/legalcare-admin/internal/lib/sl"
	"github.com/lamisai/legalcare-admin/internal/models"
	"github.com/lamisai/legalcare-admin/internal/upstream"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// SessionKey — ключ сессии сотрудника в контексте.
const SessionKey Key = "session"

// SessionProvider описывает интерфейс хранилища сессий.
type SessionProvider interface {
	Get(ctx context.Context, token string) (*models.Session, error)
}

// SessionMiddleware возвращает HTTP middleware, который проверяет сессионный
// JWT в заголовке Authorization и кладет сессию в контекст запроса.
func SessionMiddleware(store SessionProvider, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.SessionMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("missing or invalid authorization header")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			sess, err := store.Get(r.Context(), tokenStr)
			if err != nil {
				log.Error("invalid or expired session", sl.Err(err))
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired session"))
				return
			}

			ctx := context.WithValue(r.Context(), SessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionDeleter удаляет сессию по идентификатору.
type SessionDeleter interface {
	Delete(ctx context.Context, sessionID string) error
}

// HandleUpstreamUnauthorized обрабатывает отказ backend API в авторизации:
// если err означает ответ 401, сессия удаляется и клиенту возвращается 401,
// чтобы консоль перевела сотрудника на страницу входа. Возвращает true,
// если ошибка была обработана.
func HandleUpstreamUnauthorized(w http.ResponseWriter, r *http.Request, log *slog.Logger,
	sessions SessionDeleter, sess *models.Session, err error) bool {
	if !errors.Is(err, upstream.ErrUnauthorized) {
		return false
	}

	log.Error("backend API rejected session token", sl.Err(err))
	if delErr := sessions.Delete(r.Context(), sess.ID); delErr != nil {
		log.Error("failed to delete session", sl.Err(delErr))
	}
	w.WriteHeader(http.StatusUnauthorized)
	render.JSON(w, r, response.Error("session expired, login required"))
	return true
}

// SessionFromContext извлекает сессию, ранее положенную SessionMiddleware.
func SessionFromContext(ctx context.Context) (*models.Session, bool) {
	sess, ok := ctx.Value(SessionKey).(*models.Session)
	return sess, ok
}

// RequireSuperAdmin возвращает middleware, пропускающий только
// супер-администраторов.
func RequireSuperAdmin(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.RequireSuperAdmin"

			sess, ok := SessionFromContext(r.Context())
			if !ok {
				log.Error("session not found in context", slog.String("op", op))
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized"))
				return
			}
			if !sess.Employee.IsSuperAdmin() {
				log.Error("super admin role required",
					slog.String("op", op),
					slog.String("role", sess.Employee.Role))
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error("super admin role required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
