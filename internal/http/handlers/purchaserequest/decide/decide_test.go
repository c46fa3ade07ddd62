package decide

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/cafeteria-backend/internal/http/middlewarectx"
	"github.com/magabrotheeeer/cafeteria-backend/internal/models"
	purchaserequestsrv "github.com/magabrotheeeer/cafeteria-backend/internal/services/purchaserequest"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Decide(ctx context.Context, id, approvedBy int64, status string) (*models.PurchaseRequestView, error) {
	args := m.Called(ctx, id, approvedBy, status)
	view, _ := args.Get(0).(*models.PurchaseRequestView)
	return view, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestDecideHandler_ServeHTTP(t *testing.T) {
	serviceMock := new(ServiceMock)
	logger := newNoopLogger()

	handler := New(logger, serviceMock)

	view := &models.PurchaseRequestView{
		PurchaseRequest: models.PurchaseRequest{ID: 5, Status: models.RequestApproved},
	}

	tests := []struct {
		name           string
		urlID          string
		requestBody    interface{}
		mockView       *models.PurchaseRequestView
		mockErr        error
		mockCalled     bool
		wantStatusCode int
		wantError      string
		wantStatus     string
	}{
		{
			name:           "одобрение заявки",
			urlID:          "5",
			requestBody:    models.DummyRequestDecision{Status: models.RequestApproved},
			mockView:       view,
			mockCalled:     true,
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
		},
		{
			name:           "заявка не найдена",
			urlID:          "99",
			requestBody:    models.DummyRequestDecision{Status: models.RequestRejected},
			mockErr:        purchaserequestsrv.ErrRequestNotFound,
			mockCalled:     true,
			wantStatusCode: http.StatusNotFound,
			wantError:      "purchase request not found",
			wantStatus:     "Error",
		},
		{
			name:           "решение уже принято",
			urlID:          "5",
			requestBody:    models.DummyRequestDecision{Status: models.RequestApproved},
			mockErr:        purchaserequestsrv.ErrRequestDecided,
			mockCalled:     true,
			wantStatusCode: http.StatusConflict,
			wantError:      "purchase request already decided",
			wantStatus:     "Error",
		},
		{
			name:           "недопустимый статус",
			urlID:          "5",
			requestBody:    models.DummyRequestDecision{Status: "pending"},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "field Status must be one of: approved rejected",
			wantStatus:     "Error",
		},
		{
			name:           "некорректный идентификатор",
			urlID:          "abc",
			requestBody:    models.DummyRequestDecision{Status: models.RequestApproved},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request id",
			wantStatus:     "Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock.ExpectedCalls = nil
			serviceMock.Calls = nil

			if tt.mockCalled {
				serviceMock.On("Decide", mock.Anything, mock.Anything, int64(1),
					tt.requestBody.(models.DummyRequestDecision).Status).
					Return(tt.mockView, tt.mockErr).Once()
			}

			bodyBytes, err := json.Marshal(tt.requestBody)
			if err != nil {
				t.Fatal(err)
			}

			req := httptest.NewRequest(http.MethodPut, "/admin/purchase-requests/"+tt.urlID, bytes.NewReader(bodyBytes))

			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.urlID)
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			ctx = context.WithValue(ctx, middleware.RequestIDKey, "reqid123")
			ctx = context.WithValue(ctx, middlewarectx.UserID, int64(1))
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
			}

			if tt.mockCalled {
				serviceMock.AssertExpectations(t)
			}
		})
	}
}
