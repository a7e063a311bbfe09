package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ease-mdlwr/ease-mdlwr/internal/platform/httpx"
)

type contextKey struct{}

var claimsKey contextKey

// ContextWithClaims stores verified claims in the request context.
func ContextWithClaims(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromContext retrieves the claims stored by the middleware.
func ClaimsFromContext(ctx context.Context) (Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(Claims)
	return claims, ok
}

// Middleware guards routes behind a verified bearer token.
type Middleware struct {
	Service *Service
	Logger  *slog.Logger
}

// RequireToken rejects requests without a valid Authorization bearer token
// and exposes the verified claims via the request context.
func (m Middleware) RequireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "missing bearer token")
			return
		}
		claims, err := m.Service.Verify(r.Context(), token)
		if err != nil {
			if m.Logger != nil {
				m.Logger.Debug("token rejected", slog.String("path", r.URL.Path))
			}
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid token")
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
	})
}
