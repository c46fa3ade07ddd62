// Package decide реализует HTTP-обработчик решения по заявке на закупку.
package decide

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

	"github.com/magabrotheeeer/cafeteria-backend/internal/http/middlewarectx"
	"github.com/magabrotheeeer/cafeteria-backend/internal/http/response"
	"github.com/magabrotheeeer/cafeteria-backend/internal/lib/sl"
	"github.com/magabrotheeeer/cafeteria-backend/internal/models"
	purchaserequestsrv "github.com/magabrotheeeer/cafeteria-backend/internal/services/purchaserequest"
)

// Service описывает интерфейс решения по заявкам на закупку.
type Service interface {
	Decide(ctx context.Context, id, approvedBy int64, status string) (*models.PurchaseRequestView, error)
}

// Handler обрабатывает HTTP-запросы решения по заявке.
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
// @Summary Решение по заявке на закупку
// @Description Одобряет или отклоняет заявку. Одобрение пополняет склад по позициям заявки. Доступно администратору.
// @Tags PurchaseRequests
// @Security BearerAuth
// @Accept  json
// @Produce  json
// @Param id path int true "Идентификатор заявки"
// @Param request body models.DummyRequestDecision true "Решение: approved или rejected"
// @Success 200 {object} map[string]any "Заявка после решения"
// @Failure 400 {object} response.ErrorResponse "Некорректные данные"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Заявка не найдена"
// @Failure 409 {object} response.ErrorResponse "Решение по заявке уже принято"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/purchase-requests/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.purchaserequest.decide"

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

	requestID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("invalid request id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request id"))
		return
	}

	var req models.DummyRequestDecision
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

	view, err := h.service.Decide(r.Context(), requestID, userID, req.Status)
	if errors.Is(err, purchaserequestsrv.ErrRequestNotFound) {
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("purchase request not found"))
		return
	}
	if errors.Is(err, purchaserequestsrv.ErrRequestDecided) {
		w.WriteHeader(http.StatusConflict)
		render.JSON(w, r, response.Error("purchase request already decided"))
		return
	}
	if err != nil {
		log.Error("failed to decide purchase request", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal service error"))
		return
	}

	log.Info("purchase request decided",
		slog.Int64("request_id", requestID),
		slog.String("status", req.Status))
	render.JSON(w, r, response.OKWithData(view))
}
