package topup

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
	walletsrv "github.com/magabrotheeeer/cafeteria-backend/internal/services/wallet"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Topup(ctx context.Context, userID int64, amount int) (int, error) {
	args := m.Called(ctx, userID, amount)
	return args.Int(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestTopupHandler_ServeHTTP(t *testing.T) {
	serviceMock := new(ServiceMock)
	logger := newNoopLogger()

	handler := New(logger, serviceMock)

	tests := []struct {
		name           string
		requestBody    interface{}
		withUser       bool
		mockBalance    int
		mockErr        error
		mockCalled     bool
		wantStatusCode int
		wantError      string
		wantStatus     string
		wantBalance    float64
	}{
		{
			name:           "успешное пополнение",
			requestBody:    models.DummyTopup{Amount: 500},
			withUser:       true,
			mockBalance:    1200,
			mockCalled:     true,
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
			wantBalance:    1200,
		},
		{
			name:           "сумма вне границ",
			requestBody:    models.DummyTopup{Amount: 50},
			withUser:       true,
			mockErr:        walletsrv.ErrInvalidTopupAmount,
			mockCalled:     true,
			wantStatusCode: http.StatusBadRequest,
			wantError:      walletsrv.ErrInvalidTopupAmount.Error(),
			wantStatus:     "Error",
		},
		{
			name:           "отсутствует сумма",
			requestBody:    map[string]any{},
			withUser:       true,
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field Amount is a required field",
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
			requestBody:    models.DummyTopup{Amount: 500},
			withUser:       false,
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "user identification missing",
			wantStatus:     "Error",
		},
		{
			name:           "внутренняя ошибка сервиса",
			requestBody:    models.DummyTopup{Amount: 500},
			withUser:       true,
			mockErr:        errors.New("db down"),
			mockCalled:     true,
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "internal service error",
			wantStatus:     "Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock.ExpectedCalls = nil
			serviceMock.Calls = nil

			if tt.mockCalled {
				serviceMock.On("Topup", mock.Anything, int64(42), tt.requestBody.(models.DummyTopup).Amount).
					Return(tt.mockBalance, tt.mockErr).Once()
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

			req := httptest.NewRequest(http.MethodPost, "/wallet/topup", bytes.NewReader(bodyBytes))
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
				assert.Equal(t, tt.wantBalance, data["balance"])
			}

			if tt.mockCalled {
				serviceMock.AssertExpectations(t)
			}
		})
	}
}
