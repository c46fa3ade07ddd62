// Package attendance реализует HTTP-обработчик статистики посещаемости.
package attendance

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/cafeteria-backend/internal/http/response"
	"github.com/magabrotheeeer/cafeteria-backend/internal/lib/sl"
	"github.com/magabrotheeeer/cafeteria-backend/internal/models"
)

// Service описывает интерфейс статистики посещаемости.
type Service interface {
	Attendance(ctx context.Context, from, to time.Time) ([]models.AttendanceStat, error)
}

// Handler обрабатывает HTTP-запросы статистики посещаемости.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

func parsePeriod(r *http.Request) (from, to time.Time, err error) {
	now := time.Now()
	from = now.AddDate(0, 0, -30)
	to = now
	if v := r.URL.Query().Get("from"); v != "" {
		from, err = time.Parse("2006-01-02", v)
		if err != nil {
			return from, to, err
		}
	}
	if v := r.URL.Query().Get("to"); v != "" {
		to, err = time.Parse("2006-01-02", v)
		if err != nil {
			return from, to, err
		}
	}
	return from, to, nil
}

// ServeHTTP godoc
// @Summary Статистика посещаемости
// @Description Возвращает число выданных порций по дням за период. Доступно администратору.
// @Tags Stats
// @Security BearerAuth
// @Produce  json
// @Param from query string false "Начало периода (2006-01-02, по умолчанию 30 дней назад)"
// @Param to query string false "Конец периода (2006-01-02, по умолчанию сегодня)"
// @Success 200 {object} map[string]any "Посещаемость по дням"
// @Failure 400 {object} response.ErrorResponse "Некорректный период"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/stats/attendance [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.stats.attendance"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	from, to, err := parsePeriod(r)
	if err != nil {
		log.Error("invalid period", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid period"))
		return
	}

	stats, err := h.service.Attendance(r.Context(), from, to)
	if err != nil {
		log.Error("failed to get attendance stats", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal service error"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"attendance": stats,
	}))
}
