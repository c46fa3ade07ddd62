package serve

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/cafeteria-backend/internal/models"
	entitlementsrv "github.com/magabrotheeeer/cafeteria-backend/internal/services/entitlement"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Serve(ctx context.Context, req models.DummyServe, now time.Time) (*models.MealRecord, string, error) {
	args := m.Called(ctx, req, now)
	record, _ := args.Get(0).(*models.MealRecord)
	return record, args.String(1), args.Error(2)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestServeHandler_ServeHTTP(t *testing.T) {
	serviceMock := new(ServiceMock)
	logger := newNoopLogger()

	handler := New(logger, serviceMock)

	record := &models.MealRecord{
		ID:          7,
		UserID:      42,
		MealType:    models.MealLunch,
		IsConfirmed: true,
	}

	tests := []struct {
		name           string
		requestBody    models.DummyServe
		mockRecord     *models.MealRecord
		mockSource     string
		mockErr        error
		mockCalled     bool
		wantStatusCode int
		wantError      string
		wantStatus     string
	}{
		{
			name:           "подтверждение существующей записи",
			requestBody:    models.DummyServe{MealID: 7},
			mockRecord:     record,
			mockSource:     entitlementsrv.SourceRecord,
			mockCalled:     true,
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
		},
		{
			name:           "выдача по абонементу студента",
			requestBody:    models.DummyServe{UserID: 42, MealType: models.MealLunch},
			mockRecord:     record,
			mockSource:     entitlementsrv.SourceSubscription,
			mockCalled:     true,
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
		},
		{
			name:           "не указаны ни запись, ни пользователь",
			requestBody:    models.DummyServe{MealType: models.MealLunch},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "meal_id or user_id is required",
			wantStatus:     "Error",
		},
		{
			name:           "запись не найдена",
			requestBody:    models.DummyServe{MealID: 99},
			mockErr:        entitlementsrv.ErrMealRecordNotFound,
			mockCalled:     true,
			wantStatusCode: http.StatusNotFound,
			wantError:      "meal record not found",
			wantStatus:     "Error",
		},
		{
			name:           "питание уже выдано",
			requestBody:    models.DummyServe{MealID: 7},
			mockErr:        entitlementsrv.ErrAlreadyClaimed,
			mockCalled:     true,
			wantStatusCode: http.StatusConflict,
			wantError:      "meal already served",
			wantStatus:     "Error",
		},
		{
			name:           "у студента нет основания на питание",
			requestBody:    models.DummyServe{UserID: 42, MealType: models.MealLunch},
			mockErr:        entitlementsrv.ErrNoEntitlement,
			mockCalled:     true,
			wantStatusCode: http.StatusForbidden,
			wantError:      "no valid entitlement",
			wantStatus:     "Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock.ExpectedCalls = nil
			serviceMock.Calls = nil

			if tt.mockCalled {
				serviceMock.On("Serve", mock.Anything, tt.requestBody, mock.Anything).
					Return(tt.mockRecord, tt.mockSource, tt.mockErr).Once()
			}

			bodyBytes, err := json.Marshal(tt.requestBody)
			if err != nil {
				t.Fatal(err)
			}

			req := httptest.NewRequest(http.MethodPost, "/cook/meals/serve", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))

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

			if tt.mockCalled {
				serviceMock.AssertExpectations(t)
			}
		})
	}
}
