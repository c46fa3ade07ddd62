// Package list реализует HTTP-обработчик просмотра склада.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/cafeteria-backend/internal/http/response"
	"github.com/magabrotheeeer/cafeteria-backend/internal/lib/sl"
	"github.com/magabrotheeeer/cafeteria-backend/internal/models"
)

// Service описывает интерфейс чтения запасов склада.
type Service interface {
	List(ctx context.Context) ([]*models.InventoryItem, error)
}

// Handler обрабатывает HTTP-запросы просмотра склада.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Состояние склада
// @Description Возвращает запасы всех ингредиентов с признаком низкого уровня. Доступно повару и администратору.
// @Tags Inventory
// @Security BearerAuth
// @Produce  json
// @Success 200 {object} map[string]any "Список запасов"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /cook/inventory [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.inventory.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	items, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list inventory", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal service error"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"inventory": items,
	}))
}
