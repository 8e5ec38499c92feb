// Package register реализует HTTP-обработчик создания менеджера.
package register

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
	"github.com/lamisai/legalcare-admin/internal/models"
	"github.com/lamisai/legalcare-admin/internal/policy"
)

type Handler struct {
	log      *slog.Logger
	service  Service
	sessions middlewarectx.SessionDeleter
	validate *validator.Validate
}

type Service interface {
	CreateManager(ctx context.Context, token string, actor models.Employee, reqParams models.CreateManagerRequest) (*models.Employee, error)
}

func New(log *slog.Logger, service Service, sessions middlewarectx.SessionDeleter) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		sessions: sessions,
		validate: validator.New(),
	}
}

// ServeHTTP обрабатывает POST /api/v1/employees.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.employees.register"

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

	var req models.CreateManagerRequest
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

	created, err := h.service.CreateManager(r.Context(), sess.UpstreamToken, sess.Employee, req)
	if err != nil {
		if middlewarectx.HandleUpstreamUnauthorized(w, r, log, h.sessions, sess, err) {
			return
		}
		if errors.Is(err, policy.ErrPermissionDenied) {
			log.Error("manager creation not permitted", sl.Err(err))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("manager creation not permitted"))
			return
		}
		log.Error("failed to create manager", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create manager"))
		return
	}

	log.Info("manager created", slog.String("employee_id", created.ID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"employee": created,
	}))
}
