package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ease-mdlwr/ease-mdlwr/internal/identity"
)

func newGuardedHandler(t *testing.T, svc *Service) (http.Handler, *Claims) {
	t.Helper()
	var seen Claims
	mw := Middleware{Service: svc, Logger: testLogger()}
	handler := mw.RequireToken(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		require.True(t, ok, "claims must be present behind the middleware")
		seen = claims
		w.WriteHeader(http.StatusOK)
	}))
	return handler, &seen
}

func TestRequireTokenMissingHeader(t *testing.T) {
	svc := NewService(newMockRepo(), NewTokenService("secret"), nil, testLogger())
	handler, _ := newGuardedHandler(t, svc)

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/permissions/", nil))
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestRequireTokenInvalidToken(t *testing.T) {
	svc := NewService(newMockRepo(), NewTokenService("secret"), nil, testLogger())
	handler, _ := newGuardedHandler(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/permissions/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestRequireTokenValid(t *testing.T) {
	tokens := NewTokenService("secret")
	token, err := tokens.Issue(&identity.User{Username: "alice", Email: "a@b.c"})
	require.NoError(t, err)

	svc := NewService(newMockRepo(), tokens, nil, testLogger())
	handler, seen := newGuardedHandler(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/permissions/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "alice", seen.Username)
}

func TestRequireTokenCacheHitSkipsSignatureCheck(t *testing.T) {
	cache := newMockCache()
	cache.entries["opaque-token"] = [2]string{"alice", "a@b.c"}
	svc := NewService(newMockRepo(), NewTokenService("secret"), cache, testLogger())
	handler, seen := newGuardedHandler(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/permissions/", nil)
	req.Header.Set("Authorization", "Bearer opaque-token")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "alice", seen.Username)
}
