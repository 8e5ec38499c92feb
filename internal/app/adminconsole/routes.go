package adminconsole

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	auditlist "github.com/lamisai/legalcare-admin/internal/http/handlers/audit/list"
	"github.com/lamisai/legalcare-admin/internal/http/handlers/auth/login"
	"github.com/lamisai/legalcare-admin/internal/http/handlers/auth/logout"
	"github.com/lamisai/legalcare-admin/internal/http/handlers/employees/access"
	employeeslist "github.com/lamisai/legalcare-admin/internal/http/handlers/employees/list"
	"github.com/lamisai/legalcare-admin/internal/http/handlers/employees/register"
	"github.com/lamisai/legalcare-admin/internal/http/handlers/health"
	"github.com/lamisai/legalcare-admin/internal/http/handlers/summary"
	themehandler "github.com/lamisai/legalcare-admin/internal/http/handlers/theme"
	"github.com/lamisai/legalcare-admin/internal/http/handlers/users/bulkupdate"
	userslist "github.com/lamisai/legalcare-admin/internal/http/handlers/users/list"
	"github.com/lamisai/legalcare-admin/internal/http/handlers/users/selection"
	"github.com/lamisai/legalcare-admin/internal/http/handlers/users/update"
	"github.com/lamisai/legalcare-admin/internal/http/middlewarectx"
	authservice "github.com/lamisai/legalcare-admin/internal/services/auth"
	directoryservice "github.com/lamisai/legalcare-admin/internal/services/directory"
	"github.com/lamisai/legalcare-admin/internal/session"
	"github.com/lamisai/legalcare-admin/internal/storage"
	"github.com/lamisai/legalcare-admin/internal/theme"
)

// RegisterRoutes регистрирует все маршруты консоли.
func RegisterRoutes(r chi.Router, logger *slog.Logger, authSvc *authservice.Service,
	directorySvc *directoryservice.Service, sessions *session.Store,
	themes *theme.Store, db *storage.Storage) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/login", login.New(logger, authSvc).ServeHTTP)

		// Группа с сессионной аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.SessionMiddleware(sessions, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Post("/logout", logout.New(logger, authSvc).ServeHTTP)

			r.Get("/users", userslist.New(logger, directorySvc, sessions).ServeHTTP)
			r.Put("/users/{id}/subscription", update.New(logger, directorySvc, sessions).ServeHTTP)
			r.Post("/users/selection", selection.New(logger, directorySvc, sessions).ServeHTTP)
			r.Post("/users/bulk", bulkupdate.New(logger, directorySvc, sessions).ServeHTTP)

			r.Get("/theme", themehandler.New(logger, themes).Get)
			r.Put("/theme", themehandler.New(logger, themes).Set)

			// Маршруты только для супер-администратора
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireSuperAdmin(logger))

				r.Get("/summary", summary.New(logger, directorySvc, sessions).ServeHTTP)
				r.Get("/employees", employeeslist.New(logger, directorySvc, sessions).ServeHTTP)
				r.Post("/employees", register.New(logger, directorySvc, sessions).ServeHTTP)
				r.Put("/employees/{id}/access", access.New(logger, directorySvc, sessions).ServeHTTP)
				r.Get("/audit", auditlist.New(logger, db).ServeHTTP)
			})
		})
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
