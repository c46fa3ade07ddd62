package create

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/cafeteria-backend/internal/http/middlewarectx"
	"github.com/magabrotheeeer/cafeteria-backend/internal/models"
	purchasesrv "github.com/magabrotheeeer/cafeteria-backend/internal/services/purchase"
	reviewsrv "github.com/magabrotheeeer/cafeteria-backend/internal/services/review"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Add(ctx context.Context, userID int64, req models.DummyReview) (*models.Review, error) {
	args := m.Called(ctx, userID, req)
	review, _ := args.Get(0).(*models.Review)
	return review, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestCreateHandler_ServeHTTP(t *testing.T) {
	serviceMock := new(ServiceMock)
	logger := newNoopLogger()

	handler := New(logger, serviceMock)

	review := &models.Review{
		ID:      5,
		UserID:  42,
		DishID:  3,
		Rating:  4,
		Comment: "Вкусный борщ",
	}

	tests := []struct {
		name           string
		requestBody    interface{}
		withUser       bool
		mockReview     *models.Review
		mockErr        error
		wantStatusCode int
		wantError      string
		wantStatus     string
	}{
		{
			name:           "успешное добавление отзыва",
			requestBody:    models.DummyReview{DishID: 3, Rating: 4, Comment: "Вкусный борщ"},
			withUser:       true,
			mockReview:     review,
			wantStatusCode: http.StatusCreated,
			wantStatus:     "OK",
		},
		{
			name:           "блюдо не найдено",
			requestBody:    models.DummyReview{DishID: 99, Rating: 4, Comment: "Вкусно"},
			withUser:       true,
			mockErr:        purchasesrv.ErrDishNotFound,
			wantStatusCode: http.StatusNotFound,
			wantError:      "dish not found",
			wantStatus:     "Error",
		},
		{
			name:           "повторный отзыв на блюдо",
			requestBody:    models.DummyReview{DishID: 3, Rating: 2, Comment: "Передумал"},
			withUser:       true,
			mockErr:        reviewsrv.ErrReviewExists,
			wantStatusCode: http.StatusConflict,
			wantError:      "review already exists",
			wantStatus:     "Error",
		},
		{
			name:           "оценка выше допустимой",
			requestBody:    models.DummyReview{DishID: 3, Rating: 6, Comment: "Шедевр"},
			withUser:       true,
			wantStatusCode: http.StatusBadRequest,
			wantError:      "field Rating must be at most 5",
			wantStatus:     "Error",
		},
		{
			name:           "отзыв без комментария",
			requestBody:    models.DummyReview{DishID: 3, Rating: 4},
			withUser:       true,
			wantStatusCode: http.StatusBadRequest,
			wantError:      "field Comment is a required field",
			wantStatus:     "Error",
		},
		{
			name:           "некорректный JSON",
			requestBody:    "not a json",
			withUser:       true,
			wantStatusCode: http.StatusBadRequest,
			wantError:      "failed to decode request",
			wantStatus:     "Error",
		},
		{
			name:           "пользователь не авторизован",
			requestBody:    models.DummyReview{DishID: 3, Rating: 4, Comment: "Вкусно"},
			withUser:       false,
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "user identification missing",
			wantStatus:     "Error",
		},
		{
			name:           "внутренняя ошибка сервиса",
			requestBody:    models.DummyReview{DishID: 3, Rating: 4, Comment: "Вкусно"},
			withUser:       true,
			mockErr:        errors.New("db down"),
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "internal service error",
			wantStatus:     "Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock.ExpectedCalls = nil
			serviceMock.Calls = nil

			if tt.mockReview != nil || tt.mockErr != nil {
				serviceMock.On("Add", mock.Anything, int64(42), tt.requestBody.(models.DummyReview)).
					Return(tt.mockReview, tt.mockErr).Once()
			}

			var bodyBytes []byte
			var err error
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				bodyBytes, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatal(err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/reviews", bytes.NewReader(bodyBytes))
			ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123")
			if tt.withUser {
				ctx = context.WithValue(ctx, middlewarectx.UserID, int64(42))
			}
			req = req.WithContext(ctx)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err = json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)

			assert.Equal(t, tt.wantStatus, got["status"])

			if tt.wantError != "" {
				errStr, ok := got["error"].(string)
				assert.True(t, ok)
				assert.Equal(t, tt.wantError, errStr)
			} else {
				data, ok := got["data"].(map[string]any)
				assert.True(t, ok)
				gotReview, ok := data["review"].(map[string]any)
				assert.True(t, ok)
				assert.Equal(t, float64(review.DishID), gotReview["dish_id"])
			}

			if tt.mockReview != nil || tt.mockErr != nil {
				serviceMock.AssertExpectations(t)
			}
		})
	}
}
