// Package list реализует HTTP-обработчик просмотра журнала аудита.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/lamisai/legalcare-admin/internal/http/response"
	"github.com/lamisai/legalcare-admin/internal/lib/sl"
	"github.com/lamisai/legalcare-admin/internal/models"
)

const defaultLimit = 50

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	ListEvents(ctx context.Context, limit, offset int) ([]models.AuditEvent, error)
	CountEvents(ctx context.Context) (int, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP обрабатывает GET /api/v1/audit.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.audit.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit := defaultLimit
	offset := 0
	query := r.URL.Query()
	if query.Has("limit") {
		v, err := strconv.Atoi(query.Get("limit"))
		if err != nil || v < 1 {
			log.Error("failed to decode limit from query", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode limit"))
			return
		}
		limit = v
	}
	if query.Has("offset") {
		v, err := strconv.Atoi(query.Get("offset"))
		if err != nil || v < 0 {
			log.Error("failed to decode offset from query", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode offset"))
			return
		}
		offset = v
	}

	events, err := h.service.ListEvents(r.Context(), limit, offset)
	if err != nil {
		log.Error("failed to list audit events", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list audit events"))
		return
	}

	total, err := h.service.CountEvents(r.Context())
	if err != nil {
		log.Error("failed to count audit events", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not count audit events"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"events": events,
		"total":  total,
	}))
}
