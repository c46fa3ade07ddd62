// Package claim реализует HTTP-обработчик подтверждения получения питания.
//
// Основание на питание выбирается в порядке: активный абонемент,
// разовый платёж за сегодня, непогашенное предоплаченное блюдо.
package claim

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

	"github.com/magabrotheeeer/cafeteria-backend/internal/http/middlewarectx"
	"github.com/magabrotheeeer/cafeteria-backend/internal/http/response"
	"github.com/magabrotheeeer/cafeteria-backend/internal/lib/sl"
	"github.com/magabrotheeeer/cafeteria-backend/internal/models"
	entitlementsrv "github.com/magabrotheeeer/cafeteria-backend/internal/services/entitlement"
)

// Service описывает интерфейс ядра учёта питания.
type Service interface {
	Claim(ctx context.Context, userID int64, req models.DummyClaim, now time.Time) (*models.MealRecord, string, error)
}

// Handler обрабатывает HTTP-запросы подтверждения питания.
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
// @Summary Подтверждение получения питания
// @Description Подтверждает получение питания студентом, списывая основание: обед с абонемента, разовый платёж за сегодня или предоплаченное блюдо.
// @Tags Meals
// @Security BearerAuth
// @Accept  json
// @Produce  json
// @Param request body models.DummyClaim true "Тип приёма пищи и меню"
// @Success 200 {object} map[string]any "Запись о выдаче и источник"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Нет действующего основания на питание"
// @Failure 404 {object} response.ErrorResponse "Меню не найдено"
// @Failure 409 {object} response.ErrorResponse "Питание уже получено сегодня"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /meals/claim [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.meal.claim"

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

	var req models.DummyClaim
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

	record, source, err := h.service.Claim(r.Context(), userID, req, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, entitlementsrv.ErrNoEntitlement):
			log.Error("no valid entitlement", slog.Int64("user_id", userID))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("no valid entitlement"))
		case errors.Is(err, entitlementsrv.ErrAlreadyClaimed):
			log.Error("meal already claimed today", slog.Int64("user_id", userID))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("meal already claimed today"))
		case errors.Is(err, entitlementsrv.ErrPurchaseUsed):
			log.Error("dish purchase already used", slog.Int64("user_id", userID))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("dish purchase already used"))
		case errors.Is(err, entitlementsrv.ErrMenuNotFound):
			log.Error("menu not found", slog.Int64("menu_id", req.MenuID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("menu not found"))
		default:
			log.Error("failed to claim meal", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("internal service error"))
		}
		return
	}

	log.Info("meal claimed",
		slog.Int64("user_id", userID), slog.String("source", source))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"meal_record": record,
		"source":      source,
	}))
}
