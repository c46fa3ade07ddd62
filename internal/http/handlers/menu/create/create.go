// Package create реализует HTTP-обработчик создания меню администратором.
package create

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
	menusrv "github.com/magabrotheeeer/cafeteria-backend/internal/services/menu"
)

// Service описывает интерфейс создания меню.
type Service interface {
	Create(ctx context.Context, req models.DummyMenu) (int64, error)
}

// Handler обрабатывает HTTP-запросы создания меню.
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
// @Summary Создание меню
// @Description Создает меню на дату и тип приёма пищи с набором блюд. Доступно администратору.
// @Tags Menu
// @Security BearerAuth
// @Accept  json
// @Produce  json
// @Param request body models.DummyMenu true "Дата, тип приёма пищи и блюда"
// @Success 201 {object} map[string]any "Идентификатор меню"
// @Failure 400 {object} response.ErrorResponse "Некорректные данные"
// @Failure 404 {object} response.ErrorResponse "Блюдо не найдено"
// @Failure 409 {object} response.ErrorResponse "Меню на эту дату уже существует"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/menu [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.menu.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyMenu
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

	id, err := h.service.Create(r.Context(), req)
	if errors.Is(err, menusrv.ErrDishNotFound) {
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("dish not found"))
		return
	}
	if errors.Is(err, menusrv.ErrMenuExists) {
		w.WriteHeader(http.StatusConflict)
		render.JSON(w, r, response.Error("menu already exists"))
		return
	}
	if err != nil {
		log.Error("failed to create menu", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal service error"))
		return
	}

	log.Info("menu created", slog.Int64("menu_id", id))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"menu_id": id,
	}))
}
