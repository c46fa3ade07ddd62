// Package create реализует HTTP-обработчик добавления отзыва о блюде.
package create

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/cafeteria-backend/internal/http/middlewarectx"
	"github.com/magabrotheeeer/cafeteria-backend/internal/http/response"
	"github.com/magabrotheeeer/cafeteria-backend/internal/lib/sl"
	"github.com/magabrotheeeer/cafeteria-backend/internal/models"
	purchasesrv "github.com/magabrotheeeer/cafeteria-backend/internal/services/purchase"
	reviewsrv "github.com/magabrotheeeer/cafeteria-backend/internal/services/review"
)

// Service описывает интерфейс добавления отзывов.
type Service interface {
	Add(ctx context.Context, userID int64, req models.DummyReview) (*models.Review, error)
}

// Handler обрабатывает HTTP-запросы добавления отзыва.
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
// @Summary Добавление отзыва
// @Description Создает отзыв текущего студента о блюде. На блюдо допускается один отзыв.
// @Tags Reviews
// @Security BearerAuth
// @Accept  json
// @Produce  json
// @Param request body models.DummyReview true "Данные отзыва"
// @Success 201 {object} map[string]any "Созданный отзыв"
// @Failure 400 {object} response.ErrorResponse "Некорректные данные"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Блюдо не найдено"
// @Failure 409 {object} response.ErrorResponse "Отзыв на блюдо уже есть"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /reviews [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.review.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, ok := middlewarectx.UserIDFromContext(r.Context())
	if !ok {
		log.Error("user identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("user identification missing"))
		return
	}

	var req models.DummyReview
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

	review, err := h.service.Add(r.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, purchasesrv.ErrDishNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("dish not found"))
		case errors.Is(err, reviewsrv.ErrReviewExists):
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("review already exists"))
		default:
			log.Error("failed to add review", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("internal service error"))
		}
		return
	}

	log.Info("review added",
		slog.Int64("user_id", userID), slog.Int64("dish_id", req.DishID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"review": review,
	}))
}
