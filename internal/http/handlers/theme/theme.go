// Package theme реализует HTTP-обработчики чтения и смены темы консоли.
package theme

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/lamisai/legalcare-admin/internal/http/middlewarectx"
	"github.com/lamisai/legalcare-admin/internal/http/response"
	"github.com/lamisai/legalcare-admin/internal/lib/sl"
	"github.com/lamisai/legalcare-admin/internal/theme"
)

// Request тело запроса PUT /api/v1/theme.
type Request struct {
	Theme string `json:"theme" validate:"required,oneof=light dark system"`
}

type Handler struct {
	log      *slog.Logger
	store    Store
	validate *validator.Validate
}

type Store interface {
	Get(ctx context.Context, employeeID string) (theme.Preference, error)
	Set(ctx context.Context, employeeID string, pref theme.Preference) error
}

func New(log *slog.Logger, store Store) *Handler {
	return &Handler{
		log:      log,
		store:    store,
		validate: validator.New(),
	}
}

// Get обрабатывает GET /api/v1/theme. Необязательный параметр os_dark
// сообщает тему операционной системы клиента: без него предпочтение
// system разрешается в светлую тему.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.theme.get"

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

	osDark := false
	if raw := r.URL.Query().Get("os_dark"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			log.Error("failed to decode os_dark from query", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode os_dark"))
			return
		}
		osDark = parsed
	}

	pref, err := h.store.Get(r.Context(), sess.Employee.ID)
	if err != nil {
		log.Error("failed to load theme", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not load theme"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"theme":    pref,
		"resolved": theme.Resolve(pref, osDark),
	}))
}

// Set обрабатывает PUT /api/v1/theme.
func (h *Handler) Set(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.theme.set"

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

	if err := h.store.Set(r.Context(), sess.Employee.ID, theme.Preference(req.Theme)); err != nil {
		log.Error("failed to save theme", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not save theme"))
		return
	}

	log.Info("theme updated", slog.String("theme", req.Theme))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"theme": req.Theme,
	}))
}
