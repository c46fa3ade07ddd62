// Package create реализует HTTP-обработчик создания заявки на закупку.
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
	purchaserequestsrv "github.com/magabrotheeeer/cafeteria-backend/internal/services/purchaserequest"
)

// Service описывает интерфейс создания заявок на закупку.
type Service interface {
	Create(ctx context.Context, createdBy int64, req models.DummyPurchaseRequest) (int64, error)
}

// Handler обрабатывает HTTP-запросы создания заявки на закупку.
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
// @Summary Создание заявки на закупку
// @Description Создает заявку на закупку ингредиентов и уведомляет администраторов. Доступно повару.
// @Tags PurchaseRequests
// @Security BearerAuth
// @Accept  json
// @Produce  json
// @Param request body models.DummyPurchaseRequest true "Позиции заявки"
// @Success 201 {object} map[string]any "Идентификатор заявки"
// @Failure 400 {object} response.ErrorResponse "Некорректные данные"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Ингредиент не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /cook/purchase-requests [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.purchaserequest.create"

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

	var req models.DummyPurchaseRequest
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

	id, err := h.service.Create(r.Context(), userID, req)
	if errors.Is(err, purchaserequestsrv.ErrIngredientNotFound) {
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("ingredient not found"))
		return
	}
	if err != nil {
		log.Error("failed to create purchase request", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal service error"))
		return
	}

	log.Info("purchase request created", slog.Int64("request_id", id))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"request_id": id,
	}))
}
