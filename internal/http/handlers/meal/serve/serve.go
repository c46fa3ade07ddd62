// Package serve реализует HTTP-обработчик отметки выдачи питания поваром.
package serve

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/cafeteria-backend/internal/http/response"
	"github.com/magabrotheeeer/cafeteria-backend/internal/lib/sl"
	"github.com/magabrotheeeer/cafeteria-backend/internal/models"
	entitlementsrv "github.com/magabrotheeeer/cafeteria-backend/internal/services/entitlement"
)

// Service описывает интерфейс ядра учёта питания.
type Service interface {
	Serve(ctx context.Context, req models.DummyServe, now time.Time) (*models.MealRecord, string, error)
}

// Handler обрабатывает HTTP-запросы выдачи питания.
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
// @Summary Отметка выдачи питания
// @Description Подтверждает существующую запись о выдаче по meal_id либо проводит выдачу студенту user_id по общим правилам. Меню на день создаётся при отсутствии.
// @Tags Meals
// @Security BearerAuth
// @Accept  json
// @Produce  json
// @Param request body models.DummyServe true "Запись или студент"
// @Success 200 {object} map[string]any "Запись о выдаче и источник"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 403 {object} response.ErrorResponse "Нет действующего основания на питание"
// @Failure 404 {object} response.ErrorResponse "Запись не найдена"
// @Failure 409 {object} response.ErrorResponse "Питание уже выдано"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /cook/meals/serve [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.meal.serve"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyServe
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	if req.MealID == 0 && req.UserID == 0 {
		log.Error("meal_id or user_id is required")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("meal_id or user_id is required"))
		return
	}

	record, source, err := h.service.Serve(r.Context(), req, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, entitlementsrv.ErrNoEntitlement):
			log.Error("no valid entitlement", slog.Int64("user_id", req.UserID))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("no valid entitlement"))
		case errors.Is(err, entitlementsrv.ErrAlreadyClaimed):
			log.Error("meal already served")
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("meal already served"))
		case errors.Is(err, entitlementsrv.ErrPurchaseUsed):
			log.Error("dish purchase already used")
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("dish purchase already used"))
		case errors.Is(err, entitlementsrv.ErrMealRecordNotFound):
			log.Error("meal record not found", slog.Int64("meal_id", req.MealID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("meal record not found"))
		case errors.Is(err, entitlementsrv.ErrMenuNotFound):
			log.Error("menu not found", slog.Int64("menu_id", req.MenuID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("menu not found"))
		default:
			log.Error("failed to serve meal", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("internal service error"))
		}
		return
	}

	log.Info("meal served", slog.String("source", source))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"meal_record": record,
		"source":      source,
	}))
}
