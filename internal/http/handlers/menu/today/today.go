// Package today реализует HTTP-обработчик получения меню на день.
package today

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/cafeteria-backend/internal/http/response"
	"github.com/magabrotheeeer/cafeteria-backend/internal/lib/sl"
	"github.com/magabrotheeeer/cafeteria-backend/internal/models"
	menusrv "github.com/magabrotheeeer/cafeteria-backend/internal/services/menu"
)

// Service описывает интерфейс чтения меню.
type Service interface {
	Today(ctx context.Context, day time.Time, mealType string) (*models.MenuView, error)
}

// Handler обрабатывает HTTP-запросы меню на день.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Меню на сегодня
// @Description Возвращает активное меню на текущий день и его блюда.
// @Tags Menu
// @Security BearerAuth
// @Produce  json
// @Param meal_type query string false "breakfast или lunch (по умолчанию lunch)"
// @Success 200 {object} map[string]any "Меню и список блюд"
// @Failure 400 {object} response.ErrorResponse "Некорректный тип приёма пищи"
// @Failure 404 {object} response.ErrorResponse "Меню не найдено"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /menu/today [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.menu.today"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	mealType := r.URL.Query().Get("meal_type")
	if mealType == "" {
		mealType = models.MealLunch
	}
	if mealType != models.MealBreakfast && mealType != models.MealLunch {
		log.Error("invalid meal type", slog.String("meal_type", mealType))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid meal type"))
		return
	}

	view, err := h.service.Today(r.Context(), time.Now(), mealType)
	if errors.Is(err, menusrv.ErrMenuNotFound) {
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("menu not found"))
		return
	}
	if err != nil {
		log.Error("failed to get menu", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal service error"))
		return
	}

	render.JSON(w, r, response.OKWithData(view))
}
