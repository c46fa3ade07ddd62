// Package adjust реализует HTTP-обработчик корректировки запаса ингредиента.
package adjust

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/cafeteria-backend/internal/http/response"
	"github.com/magabrotheeeer/cafeteria-backend/internal/lib/sl"
	"github.com/magabrotheeeer/cafeteria-backend/internal/models"
	inventorysrv "github.com/magabrotheeeer/cafeteria-backend/internal/services/inventory"
)

// Service описывает интерфейс корректировки запасов.
type Service interface {
	Adjust(ctx context.Context, ingredientID int64, delta float64) (float64, error)
}

// Handler обрабатывает HTTP-запросы корректировки запаса.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Корректировка запаса
// @Description Изменяет количество ингредиента на складе на указанную величину. Доступно повару и администратору.
// @Tags Inventory
// @Security BearerAuth
// @Accept  json
// @Produce  json
// @Param id path int true "Идентификатор ингредиента"
// @Param request body models.DummyInventoryAdjust true "Величина изменения"
// @Success 200 {object} map[string]any "Новое количество"
// @Failure 400 {object} response.ErrorResponse "Некорректные данные"
// @Failure 404 {object} response.ErrorResponse "Ингредиент не найден"
// @Failure 409 {object} response.ErrorResponse "Запас не может стать отрицательным"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /cook/inventory/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.inventory.adjust"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	ingredientID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("invalid ingredient id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid ingredient id"))
		return
	}

	var req models.DummyInventoryAdjust
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode request"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		var validateErr validator.ValidationErrors
		errors.As(err, &validateErr)
		log.Error("invalid request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(validateErr))
		return
	}

	quantity, err := h.service.Adjust(r.Context(), ingredientID, req.Adjustment)
	if errors.Is(err, inventorysrv.ErrIngredientNotFound) {
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("ingredient not found"))
		return
	}
	if errors.Is(err, inventorysrv.ErrNegativeStock) {
		w.WriteHeader(http.StatusConflict)
		render.JSON(w, r, response.Error("stock can not become negative"))
		return
	}
	if err != nil {
		log.Error("failed to adjust inventory", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal service error"))
		return
	}

	log.Info("inventory adjusted",
		slog.Int64("ingredient_id", ingredientID),
		slog.Float64("quantity", quantity))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"quantity": quantity,
	}))
}
