package app

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ease-mdlwr/ease-mdlwr/internal/auth"
	"github.com/ease-mdlwr/ease-mdlwr/internal/observability"
	"github.com/ease-mdlwr/ease-mdlwr/internal/rbac"
	"github.com/ease-mdlwr/ease-mdlwr/internal/users"
)

func newTestRouter() http.Handler {
	logger := slog.New(slog.DiscardHandler)
	cfg := &Config{AppRequestTimeout: 5 * time.Second}
	authService := auth.NewService(nil, auth.NewTokenService("test-secret"), nil, logger)

	return NewRouter(RouterParams{
		Logger:         logger,
		Config:         cfg,
		AuthHandler:    auth.NewHandler(logger, authService, nil),
		AuthMiddleware: auth.Middleware{Service: authService, Logger: logger},
		UsersHandler:   users.NewHandler(logger, users.NewService(nil)),
		RBACHandler:    rbac.NewHandler(logger, rbac.NewService(nil)),
		Metrics:        observability.NewMetrics(),
	})
}

func TestRouterHealthz(t *testing.T) {
	router := newTestRouter()

	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), `"status":"ok"`)
}

func TestRouterMetricsExposed(t *testing.T) {
	router := newTestRouter()

	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, res.Code)
}

func TestRouterAdminRoutesRequireToken(t *testing.T) {
	router := newTestRouter()

	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/permissions/", nil))
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestRouterUserLookupRejectsBadID(t *testing.T) {
	router := newTestRouter()

	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/not-an-id/", nil))
	assert.Equal(t, http.StatusBadRequest, res.Code)
}
