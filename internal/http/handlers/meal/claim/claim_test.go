package claim

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
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/cafeteria-backend/internal/http/middlewarectx"
	"github.com/magabrotheeeer/cafeteria-backend/internal/models"
	entitlementsrv "github.com/magabrotheeeer/cafeteria-backend/internal/services/entitlement"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Claim(ctx context.Context, userID int64, req models.DummyClaim, now time.Time) (*models.MealRecord, string, error) {
	args := m.Called(ctx, userID, req, now)
	record, _ := args.Get(0).(*models.MealRecord)
	return record, args.String(1), args.Error(2)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestClaimHandler_ServeHTTP(t *testing.T) {
	serviceMock := new(ServiceMock)
	logger := newNoopLogger()

	handler := New(logger, serviceMock)

	record := &models.MealRecord{
		ID:          7,
		UserID:      42,
		MenuID:      3,
		MealType:    models.MealLunch,
		IsConfirmed: true,
	}

	tests := []struct {
		name           string
		requestBody    interface{}
		withUser       bool
		mockRecord     *models.MealRecord
		mockSource     string
		mockErr        error
		wantStatusCode int
		wantError      string
		wantStatus     string
	}{
		{
			name:           "успешное получение по абонементу",
			requestBody:    models.DummyClaim{MealType: models.MealLunch},
			withUser:       true,
			mockRecord:     record,
			mockSource:     entitlementsrv.SourceSubscription,
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
		},
		{
			name:           "нет основания на питание",
			requestBody:    models.DummyClaim{MealType: models.MealLunch},
			withUser:       true,
			mockErr:        entitlementsrv.ErrNoEntitlement,
			wantStatusCode: http.StatusForbidden,
			wantError:      "no valid entitlement",
			wantStatus:     "Error",
		},
		{
			name:           "повторное получение в тот же день",
			requestBody:    models.DummyClaim{MealType: models.MealLunch},
			withUser:       true,
			mockErr:        entitlementsrv.ErrAlreadyClaimed,
			wantStatusCode: http.StatusConflict,
			wantError:      "meal already claimed today",
			wantStatus:     "Error",
		},
		{
			name:           "меню не найдено",
			requestBody:    models.DummyClaim{MealType: models.MealLunch, MenuID: 99},
			withUser:       true,
			mockErr:        entitlementsrv.ErrMenuNotFound,
			wantStatusCode: http.StatusNotFound,
			wantError:      "menu not found",
			wantStatus:     "Error",
		},
		{
			name:           "некорректный тип приёма пищи",
			requestBody:    models.DummyClaim{MealType: "dinner"},
			withUser:       true,
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field MealType must be one of: breakfast lunch",
			wantStatus:     "Error",
		},
		{
			name:           "некорректный JSON",
			requestBody:    "not a json",
			withUser:       true,
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
			wantStatus:     "Error",
		},
		{
			name:           "пользователь не авторизован",
			requestBody:    models.DummyClaim{MealType: models.MealLunch},
			withUser:       false,
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "user identification missing",
			wantStatus:     "Error",
		},
		{
			name:           "внутренняя ошибка сервиса",
			requestBody:    models.DummyClaim{MealType: models.MealLunch},
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

			if tt.mockRecord != nil || tt.mockErr != nil {
				serviceMock.On("Claim", mock.Anything, int64(42), tt.requestBody.(models.DummyClaim), mock.Anything).
					Return(tt.mockRecord, tt.mockSource, tt.mockErr).Once()
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

			req := httptest.NewRequest(http.MethodPost, "/meals/claim", bytes.NewReader(bodyBytes))
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
				assert.Equal(t, tt.mockSource, data["source"])
			}

			if tt.mockRecord != nil || tt.mockErr != nil {
				serviceMock.AssertExpectations(t)
			}
		})
	}
}
