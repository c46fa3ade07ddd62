// Package payments реализует HTTP-обработчик статистики платежей.
package payments

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

// Service описывает интерфейс статистики платежей.
type Service interface {
	Payments(ctx context.Context, from, to time.Time) ([]models.PaymentStat, error)
}

// Handler обрабатывает HTTP-запросы статистики платежей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// parsePeriod читает границы периода из query-параметров, по умолчанию
// последние 30 дней.
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
// @Summary Статистика платежей
// @Description Возвращает суммы и количества платежей по типам за период. Доступно администратору.
// @Tags Stats
// @Security BearerAuth
// @Produce  json
// @Param from query string false "Начало периода (2006-01-02, по умолчанию 30 дней назад)"
// @Param to query string false "Конец периода (2006-01-02, по умолчанию сегодня)"
// @Success 200 {object} map[string]any "Статистика по типам платежей"
// @Failure 400 {object} response.ErrorResponse "Некорректный период"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/stats/payments [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.stats.payments"

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

	stats, err := h.service.Payments(r.Context(), from, to)
	if err != nil {
		log.Error("failed to get payment stats", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal service error"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"payments": stats,
	}))
}
