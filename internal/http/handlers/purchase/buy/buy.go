// Package buy реализует HTTP-обработчик покупки блюда впрок.
package buy

import (
	"context"
	"encoding/json"
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
	walletsrv "github.com/magabrotheeeer/cafeteria-backend/internal/services/wallet"
)

// Service описывает интерфейс бизнес-логики покупок блюд.
type Service interface {
	BuyDish(ctx context.Context, userID int64, req models.DummyPurchase) (*models.DishPurchase, int, error)
}

// Handler обрабатывает HTTP-запросы покупки блюда.
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
// @Summary Покупка блюда
// @Description Покупает блюдо за счёт кошелька. Покупка остаётся непогашенной до предъявления при выдаче питания.
// @Tags Purchases
// @Security BearerAuth
// @Accept  json
// @Produce  json
// @Param request body models.DummyPurchase true "Блюдо и тип приёма пищи"
// @Success 200 {object} map[string]any "Покупка и остаток баланса"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 402 {object} response.ErrorResponse "Недостаточно средств"
// @Failure 404 {object} response.ErrorResponse "Блюдо не найдено"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /purchases [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.purchase.buy"

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

	var req models.DummyPurchase
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

	purchase, balance, err := h.service.BuyDish(r.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, purchasesrv.ErrDishNotFound):
			log.Error("dish not found", slog.Int64("dish_id", req.DishID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("dish not found"))
		default:
			if shortfall, ok := walletsrv.IsInsufficientFunds(err); ok {
				log.Error("insufficient funds", slog.Int("shortfall", shortfall))
				w.WriteHeader(http.StatusPaymentRequired)
				render.JSON(w, r, response.Response{
					Status: response.StatusError,
					Error:  "insufficient funds",
					Data:   map[string]any{"shortfall": shortfall},
				})
				return
			}
			log.Error("failed to buy dish", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("internal service error"))
		}
		return
	}

	log.Info("dish purchased", slog.Int64("purchase_id", purchase.ID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"purchase":          purchase,
		"remaining_balance": balance,
	}))
}
