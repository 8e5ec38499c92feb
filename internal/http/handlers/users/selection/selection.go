// Package selection реализует HTTP-обработчик управления набором
// выбранных строк таблицы пользователей.
package selection

import (
	"context"
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
)

// Request тело запроса POST /api/v1/users/selection.
// Action: toggle — одна строка, page — строки текущей страницы,
// all — все строки под текущим фильтром, clear — очистить набор.
type Request struct {
	Action  string `json:"action" validate:"required,oneof=toggle page all clear"`
	ID      string `json:"id,omitempty"`
	Checked bool   `json:"checked,omitempty"`
}

type Handler struct {
	log      *slog.Logger
	service  Service
	sessions SessionStore
	validate *validator.Validate
	table    *listview.Controller[models.User]
}

type Service interface {
	LoadUsers(ctx context.Context, token string) ([]models.User, error)
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

// ServeHTTP обрабатывает POST /api/v1/users/selection.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.selection"

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

	users, err := h.service.LoadUsers(r.Context(), sess.UpstreamToken)
	if err != nil {
		if middlewarectx.HandleUpstreamUnauthorized(w, r, log, h.sessions, sess, err) {
			return
		}
		log.Error("failed to load users", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("could not load users"))
		return
	}

	st := sess.Table(models.TableUsers)
	switch req.Action {
	case "toggle":
		if req.ID == "" {
			log.Error("missing id for toggle action")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("missing id for toggle action"))
			return
		}
		h.table.ToggleSelect(&st, req.ID)
	case "page":
		h.table.TogglePage(&st, users, req.Checked)
	case "all":
		h.table.SelectAllFiltered(&st, users)
	case "clear":
		h.table.ClearSelection(&st)
	}
	sess.SetTable(models.TableUsers, st)

	if err := h.sessions.Save(r.Context(), sess); err != nil {
		log.Error("failed to save session state", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not save selection"))
		return
	}

	view := h.table.BuildView(users, st)
	log.Info("selection updated",
		slog.String("action", req.Action),
		slog.Int("selected", view.SelectedCount))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"view": view,
	}))
}
