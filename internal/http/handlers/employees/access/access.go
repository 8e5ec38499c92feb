// Package access реализует HTTP-обработчик переключения права менеджера
// менять статусы подписки.
package access

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/lamisai/legalcare-admin/internal/http/middlewarectx"
	"github.com/lamisai/legalcare-admin/internal/http/response"
	"github.com/lamisai/legalcare-admin/internal/lib/sl"
	"github.com/lamisai/legalcare-admin/internal/models"
	"github.com/lamisai/legalcare-admin/internal/policy"
	"github.com/lamisai/legalcare-admin/internal/services/directory"
)

type Handler struct {
	log      *slog.Logger
	service  Service
	sessions middlewarectx.SessionDeleter
}

type Service interface {
	ToggleManagerAccess(ctx context.Context, token string, actor models.Employee, employeeID string) (*models.Employee, error)
}

func New(log *slog.Logger, service Service, sessions middlewarectx.SessionDeleter) *Handler {
	return &Handler{log: log, service: service, sessions: sessions}
}

// ServeHTTP обрабатывает PUT /api/v1/employees/{id}/access.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.employees.access"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	sess, ok := middlewarectx.SessionFromContext(r.Context())
	if !ok {
		log.Error("session not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	employeeID := chi.URLParam(r, "id")
	if employeeID == "" {
		log.Error("missing employee id in url")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing employee id"))
		return
	}

	updated, err := h.service.ToggleManagerAccess(r.Context(), sess.UpstreamToken, sess.Employee, employeeID)
	if err != nil {
		if middlewarectx.HandleUpstreamUnauthorized(w, r, log, h.sessions, sess, err) {
			return
		}
		switch {
		case errors.Is(err, policy.ErrPermissionDenied):
			log.Error("access change not permitted", sl.Err(err))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("access change not permitted"))
		case errors.Is(err, directory.ErrNotFound):
			log.Error("employee not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("employee not found"))
		default:
			log.Error("failed to update access", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not update access"))
		}
		return
	}

	log.Info("manager access updated",
		slog.String("employee_id", employeeID),
		slog.Bool("can_change_subscription", updated.Access.CanChangeSubscription))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"employee": updated,
	}))
}
