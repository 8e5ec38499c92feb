// Package list реализует HTTP-обработчик таблицы менеджеров.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/lamisai/legalcare-admin/internal/http/middlewarectx"
	"github.com/lamisai/legalcare-admin/internal/http/response"
	"github.com/lamisai/legalcare-admin/internal/lib/sl"
	"github.com/lamisai/legalcare-admin/internal/listview"
	"github.com/lamisai/legalcare-admin/internal/models"
)

type Handler struct {
	log      *slog.Logger
	service  Service
	sessions SessionStore
	table    *listview.Controller[models.Employee]
}

type Service interface {
	LoadEmployees(ctx context.Context, token string) ([]models.Employee, error)
}

// SessionStore сохраняет состояние таблицы и удаляет сессию,
// когда backend API отвергает её токен.
type SessionStore interface {
	Save(ctx context.Context, sess *models.Session) error
	Delete(ctx context.Context, sessionID string) error
}

func New(log *slog.Logger, service Service, sessions SessionStore) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		sessions: sessions,
		table:    listview.Employees(),
	}
}

// ServeHTTP обрабатывает GET /api/v1/employees. Возвращаются только
// менеджеры: супер-администраторы в таблице не показываются.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.employees.list"

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

	employees, err := h.service.LoadEmployees(r.Context(), sess.UpstreamToken)
	if err != nil {
		if middlewarectx.HandleUpstreamUnauthorized(w, r, log, h.sessions, sess, err) {
			return
		}
		log.Error("failed to load employees", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("could not load employees"))
		return
	}

	managers := make([]models.Employee, 0, len(employees))
	for _, e := range employees {
		if e.Role == models.RoleManager {
			managers = append(managers, e)
		}
	}

	st := sess.Table(models.TableManagers)
	query := r.URL.Query()
	changed := false
	if query.Has("search") {
		h.table.SetSearch(&st, query.Get("search"))
		changed = true
	}
	if query.Has("page") {
		page, err := strconv.Atoi(query.Get("page"))
		if err != nil {
			log.Error("failed to decode page from query", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode page"))
			return
		}
		h.table.SetPage(&st, page)
		changed = true
	}

	view := h.table.BuildView(managers, st)
	st.Page = view.Page

	if changed {
		sess.SetTable(models.TableManagers, st)
		if err := h.sessions.Save(r.Context(), sess); err != nil {
			log.Error("failed to save session state", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not save table state"))
			return
		}
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"view":   view,
		"search": st.Search,
	}))
}
