// Package broadcast реализует HTTP-обработчик массовой рассылки уведомлений.
package broadcast

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
	notificationsrv "github.com/magabrotheeeer/cafeteria-backend/internal/services/notification"
)

// Service описывает интерфейс массовой рассылки.
type Service interface {
	Broadcast(ctx context.Context, req models.DummyBroadcast) (int, error)
}

// Handler обрабатывает HTTP-запросы массовой рассылки.
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
// @Summary Массовая рассылка уведомлений
// @Description Отправляет уведомление всем пользователям роли либо перечисленным получателям. Доступно администратору.
// @Tags Notifications
// @Security BearerAuth
// @Accept  json
// @Produce  json
// @Param request body models.DummyBroadcast true "Заголовок, текст и получатели"
// @Success 201 {object} map[string]any "Число адресатов"
// @Failure 400 {object} response.ErrorResponse "Некорректные данные или нет получателей"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/notifications [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.notification.broadcast"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyBroadcast
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

	count, err := h.service.Broadcast(r.Context(), req)
	if err != nil {
		if errors.Is(err, notificationsrv.ErrNoRecipients) {
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("role or user_ids is required"))
			return
		}
		log.Error("failed to broadcast notification", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal service error"))
		return
	}

	log.Info("notification broadcast", slog.Int("recipients", count))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"recipients": count,
	}))
}
