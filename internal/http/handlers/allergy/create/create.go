// Package create реализует HTTP-обработчик добавления записи об аллергии.
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
	allergysrv "github.com/magabrotheeeer/cafeteria-backend/internal/services/allergy"
)

// Service описывает интерфейс добавления записей об аллергиях.
type Service interface {
	Add(ctx context.Context, userID int64, req models.DummyAllergy) (*models.Allergy, error)
}

// Handler обрабатывает HTTP-запросы добавления записи об аллергии.
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
// @Summary Добавление аллергии
// @Description Создает запись об аллергии текущего студента. Тип аллергена уникален для пользователя.
// @Tags Allergies
// @Security BearerAuth
// @Accept  json
// @Produce  json
// @Param request body models.DummyAllergy true "Данные записи"
// @Success 201 {object} map[string]any "Созданная запись"
// @Failure 400 {object} response.ErrorResponse "Некорректные данные"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 409 {object} response.ErrorResponse "Запись этого типа уже есть"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /allergies [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.allergy.create"

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

	var req models.DummyAllergy
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

	allergy, err := h.service.Add(r.Context(), userID, req)
	if err != nil {
		if errors.Is(err, allergysrv.ErrAllergyExists) {
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("allergy already recorded"))
			return
		}
		log.Error("failed to add allergy", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal service error"))
		return
	}

	log.Info("allergy recorded",
		slog.Int64("user_id", userID), slog.String("allergy_type", req.AllergyType))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"allergy": allergy,
	}))
}
