// Package update реализует HTTP-обработчик смены статуса подписки
// одного пользователя.
package update

import (
	"context"
	"errors"
	"io"
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

// Request тело запроса PUT /api/v1/users/{id}/subscription.
// Пустое тело — переход по таблице; явный статус — прямое назначение.
type Request struct {
	Status models.SubscriptionStatus `json:"status,omitempty"`
}

type Handler struct {
	log      *slog.Logger
	service  Service
	sessions middlewarectx.SessionDeleter
}

type Service interface {
	ToggleSubscription(ctx context.Context, token string, actor models.Employee, userID string) (*models.User, error)
	SetSubscription(ctx context.Context, token string, actor models.Employee, userID string, status models.SubscriptionStatus) (*models.User, error)
}

func New(log *slog.Logger, service Service, sessions middlewarectx.SessionDeleter) *Handler {
	return &Handler{log: log, service: service, sessions: sessions}
}

// ServeHTTP обрабатывает PUT /api/v1/users/{id}/subscription.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.update"

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

	userID := chi.URLParam(r, "id")
	if userID == "" {
		log.Error("missing user id in url")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing user id"))
		return
	}

	var req Request
	if err := render.DecodeJSON(r.Body, &req); err != nil && !errors.Is(err, io.EOF) {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode request"))
		return
	}

	var updated *models.User
	var err error
	if req.Status != "" {
		updated, err = h.service.SetSubscription(r.Context(), sess.UpstreamToken, sess.Employee, userID, req.Status)
	} else {
		updated, err = h.service.ToggleSubscription(r.Context(), sess.UpstreamToken, sess.Employee, userID)
	}
	if err != nil {
		if middlewarectx.HandleUpstreamUnauthorized(w, r, log, h.sessions, sess, err) {
			return
		}
		switch {
		case errors.Is(err, policy.ErrPermissionDenied):
			log.Error("subscription change not permitted", sl.Err(err))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("subscription change not permitted"))
		case errors.Is(err, directory.ErrNotFound):
			log.Error("user not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		case errors.Is(err, directory.ErrInvalidStatus):
			log.Error("invalid subscription status", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid subscription status"))
		default:
			log.Error("failed to update subscription", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not update subscription"))
		}
		return
	}

	log.Info("subscription updated",
		slog.String("user_id", userID),
		slog.String("status", string(updated.SubscriptionStatus)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"user": updated,
	}))
}
