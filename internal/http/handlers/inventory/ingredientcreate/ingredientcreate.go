// Package ingredientcreate реализует HTTP-обработчик добавления ингредиента.
package ingredientcreate

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/cafeteria-backend/internal/http/response"
	"github.com/magabrotheeeer/cafeteria-backend/internal/lib/sl"
	"github.com/magabrotheeeer/cafeteria-backend/internal/models"
	"github.com/magabrotheeeer/cafeteria-backend/internal/storage/repository"
)

// Service описывает интерфейс добавления ингредиента.
type Service interface {
	CreateIngredient(ctx context.Context, req models.DummyIngredient) (int64, error)
}

// Handler обрабатывает HTTP-запросы добавления ингредиента.
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
// @Summary Добавление ингредиента
// @Description Добавляет ингредиент склада с нулевым начальным запасом. Доступно администратору.
// @Tags Inventory
// @Security BearerAuth
// @Accept  json
// @Produce  json
// @Param request body models.DummyIngredient true "Данные ингредиента"
// @Success 201 {object} map[string]any "Идентификатор ингредиента"
// @Failure 400 {object} response.ErrorResponse "Некорректные данные"
// @Failure 409 {object} response.ErrorResponse "Ингредиент с таким названием уже существует"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/ingredients [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.inventory.ingredientcreate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyIngredient
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

	id, err := h.service.CreateIngredient(r.Context(), req)
	if repository.IsUniqueViolation(err) {
		w.WriteHeader(http.StatusConflict)
		render.JSON(w, r, response.Error("ingredient already exists"))
		return
	}
	if err != nil {
		log.Error("failed to create ingredient", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal service error"))
		return
	}

	log.Info("ingredient created", slog.Int64("ingredient_id", id))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"ingredient_id": id,
	}))
}
