// Package buy реализует HTTP-обработчик покупки абонемента на питание.
package buy

import (
	"context"
	"encoding/json"
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
	walletsrv "github.com/magabrotheeeer/cafeteria-backend/internal/services/wallet"
)

// Service описывает интерфейс бизнес-логики абонементов.
type Service interface {
	Buy(ctx context.Context, userID int64, subscriptionType string, now time.Time) (*models.Subscription, error)
}

// Handler обрабатывает HTTP-запросы покупки абонемента.
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
// @Summary Покупка абонемента
// @Description Покупает недельный или месячный абонемент за счёт кошелька. Активный абонемент продлевается: дни и обеды накапливаются.
// @Tags Subscriptions
// @Security BearerAuth
// @Accept  json
// @Produce  json
// @Param request body models.DummySubscription true "Тип абонемента"
// @Success 200 {object} map[string]any "Абонемент"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 402 {object} response.ErrorResponse "Недостаточно средств"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /subscription [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.buy"

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

	var req models.DummySubscription
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

	sub, err := h.service.Buy(r.Context(), userID, req.SubscriptionType, time.Now())
	if err != nil {
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
		log.Error("failed to buy subscription", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal service error"))
		return
	}

	log.Info("subscription purchased",
		slog.Int64("user_id", userID), slog.String("type", req.SubscriptionType))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"subscription": sub,
	}))
}
