// Package bulkupdate реализует HTTP-обработчик массовой смены статусов
// подписки для выбранных пользователей.
package bulkupdate

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/lamisai/legalcare-admin/internal/http/middlewarectx"
	"github.com/lamisai/legalcare-admin/internal/http/response"
	"github.com/lamisai/legalcare-admin/internal/lib/sl"
	"github.com/lamisai/legalcare-admin/internal/listview"
	"github.com/lamisai/legalcare-admin/internal/models"
	"github.com/lamisai/legalcare-admin/internal/policy"
	"github.com/lamisai/legalcare-admin/internal/services/directory"
)

// Request тело запроса POST /api/v1/users/bulk.
type Request struct {
	Action string `json:"action" validate:"required,oneof=activate deactivate"`
}

type Handler struct {
	log      *slog.Logger
	service  Service
	sessions SessionStore
	validate *validator.Validate
	table    *listview.Controller[models.User]
}

type Service interface {
	BulkSetSubscription(ctx context.Context, token string, actor models.Employee, ids []string, action policy.BulkAction) error
}

type SessionStore interface {
	Save(ctx context.Context, sess *models.Session) error
	Delete(ctx context.Context, sessionID string) error
}

func New(log *slog.Logger, service Service, sessions SessionStore) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		sessions: sessions,
		validate: validator.New(),
		table:    listview.Users(),
	}
}

// ServeHTTP обрабатывает POST /api/v1/users/bulk. При полном успехе набор
// выбранных очищается; при любой ошибке набор сохраняется для повтора.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.bulkupdate"

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

	var req Request
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode request"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	st := sess.Table(models.TableUsers)
	ids := h.table.SelectedIDs(st)
	if len(ids) == 0 {
		log.Error("no users selected")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("no users selected"))
		return
	}

	action := policy.BulkActivate
	if req.Action == "deactivate" {
		action = policy.BulkDeactivate
	}

	err := h.service.BulkSetSubscription(r.Context(), sess.UpstreamToken, sess.Employee, ids, action)
	if err != nil {
		if middlewarectx.HandleUpstreamUnauthorized(w, r, log, h.sessions, sess, err) {
			return
		}
		switch {
		case errors.Is(err, policy.ErrPermissionDenied):
			log.Error("bulk update not permitted", sl.Err(err))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("subscription change not permitted"))
		case errors.Is(err, directory.ErrBulkFailed):
			// выбор не очищается, сотрудник может повторить операцию
			log.Error("bulk update failed", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error("failed to update subscriptions"))
		default:
			log.Error("failed to run bulk update", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to update subscriptions"))
		}
		return
	}

	h.table.ClearSelection(&st)
	sess.SetTable(models.TableUsers, st)
	if err := h.sessions.Save(r.Context(), sess); err != nil {
		log.Error("failed to save session state", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not save selection"))
		return
	}

	log.Info("bulk update completed",
		slog.String("action", req.Action),
		slog.Int("updated", len(ids)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"updated_count": len(ids),
	}))
}
