// Package delete реализует HTTP-обработчик удаления записи об аллергии.
package delete

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/cafeteria-backend/internal/http/middlewarectx"
	"github.com/magabrotheeeer/cafeteria-backend/internal/http/response"
	"github.com/magabrotheeeer/cafeteria-backend/internal/lib/sl"
	allergysrv "github.com/magabrotheeeer/cafeteria-backend/internal/services/allergy"
)

// Service описывает интерфейс удаления записей об аллергиях.
type Service interface {
	Delete(ctx context.Context, id, userID int64) error
}

// Handler обрабатывает HTTP-запросы удаления записи об аллергии.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удаление аллергии
// @Description Удаляет запись об аллергии текущего студента.
// @Tags Allergies
// @Security BearerAuth
// @Produce  json
// @Param id path int true "Идентификатор записи"
// @Success 200 {object} response.Response "Запись удалена"
// @Failure 400 {object} response.ErrorResponse "Некорректный идентификатор"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Запись не найдена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /allergies/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.allergy.delete"

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

	allergyID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("invalid allergy id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid allergy id"))
		return
	}

	if err := h.service.Delete(r.Context(), allergyID, userID); err != nil {
		if errors.Is(err, allergysrv.ErrAllergyNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("allergy not found"))
			return
		}
		log.Error("failed to delete allergy", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal service error"))
		return
	}

	log.Info("allergy deleted",
		slog.Int64("user_id", userID), slog.Int64("allergy_id", allergyID))
	render.JSON(w, r, response.OK())
}
