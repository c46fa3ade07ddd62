package middlewarectx_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/cafeteria-backend/internal/http/middlewarectx"
	"github.com/magabrotheeeer/cafeteria-backend/internal/lib/jwt"
	"github.com/magabrotheeeer/cafeteria-backend/internal/models"
)

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestJWTMiddleware(t *testing.T) {
	maker := jwt.NewMaker("test-secret", time.Hour)
	validToken, err := maker.GenerateToken(42, models.RoleStudent)
	require.NoError(t, err)

	otherMaker := jwt.NewMaker("other-secret", time.Hour)
	foreignToken, err := otherMaker.GenerateToken(42, models.RoleStudent)
	require.NoError(t, err)

	handlerCalled := false
	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		userID, ok := middlewarectx.UserIDFromContext(r.Context())
		assert.True(t, ok)
		assert.Equal(t, int64(42), userID)
		role, ok := middlewarectx.RoleFromContext(r.Context())
		assert.True(t, ok)
		assert.Equal(t, models.RoleStudent, role)
		w.WriteHeader(http.StatusOK)
	})

	mw := middlewarectx.JWTMiddleware(maker, newNoopLogger())(nextHandler)

	tests := []struct {
		name           string
		authHeader     string
		wantStatusCode int
		wantCalled     bool
	}{
		{
			name:           "отсутствует заголовок Authorization",
			authHeader:     "",
			wantStatusCode: http.StatusUnauthorized,
			wantCalled:     false,
		},
		{
			name:           "неверный префикс заголовка",
			authHeader:     "Basic sometoken",
			wantStatusCode: http.StatusUnauthorized,
			wantCalled:     false,
		},
		{
			name:           "токен подписан чужим ключом",
			authHeader:     "Bearer " + foreignToken,
			wantStatusCode: http.StatusUnauthorized,
			wantCalled:     false,
		},
		{
			name:           "валидный токен",
			authHeader:     "Bearer " + validToken,
			wantStatusCode: http.StatusOK,
			wantCalled:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled = false

			req := httptest.NewRequest(http.MethodGet, "/somepath", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			mw.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantCalled, handlerCalled)
		})
	}
}

func TestRequireRole(t *testing.T) {
	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	maker := jwt.NewMaker("test-secret", time.Hour)
	log := newNoopLogger()

	tests := []struct {
		name           string
		role           string
		allowed        []string
		wantStatusCode int
	}{
		{
			name:           "роль совпадает",
			role:           models.RoleAdmin,
			allowed:        []string{models.RoleAdmin},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "одна из нескольких ролей",
			role:           models.RoleCook,
			allowed:        []string{models.RoleCook, models.RoleAdmin},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "недостаточно прав",
			role:           models.RoleStudent,
			allowed:        []string{models.RoleAdmin},
			wantStatusCode: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := maker.GenerateToken(7, tt.role)
			require.NoError(t, err)

			chain := middlewarectx.JWTMiddleware(maker, log)(
				middlewarectx.RequireRole(log, tt.allowed...)(nextHandler))

			req := httptest.NewRequest(http.MethodGet, "/somepath", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()

			chain.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
		})
	}
}
