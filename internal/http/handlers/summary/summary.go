// Package summary реализует HTTP-обработчик агрегированных счетчиков
// панели супер-администратора.
package summary

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/lamisai/legalcare-admin/internal/http/middlewarectx"
	"github.com/lamisai/legalcare-admin/internal/http/response"
	"github.com/lamisai/legalcare-admin/internal/lib/sl"
	"github.com/lamisai/legalcare-admin/internal/services/directory"
)

type Handler struct {
	log      *slog.Logger
	service  Service
	sessions middlewarectx.SessionDeleter
}

type Service interface {
	Summary(ctx context.Context, token string) (*directory.Summary, error)
}

func New(log *slog.Logger, service Service, sessions middlewarectx.SessionDeleter) *Handler {
	return &Handler{log: log, service: service, sessions: sessions}
}

// ServeHTTP обрабатывает GET /api/v1/summary.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.summary"

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

	result, err := h.service.Summary(r.Context(), sess.UpstreamToken)
	if err != nil {
		if middlewarectx.HandleUpstreamUnauthorized(w, r, log, h.sessions, sess, err) {
			return
		}
		log.Error("failed to build summary", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("could not build summary"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(result))
}
