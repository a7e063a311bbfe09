package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ease-mdlwr/ease-mdlwr/internal/auth"
	"github.com/ease-mdlwr/ease-mdlwr/internal/observability"
	"github.com/ease-mdlwr/ease-mdlwr/internal/rbac"
	"github.com/ease-mdlwr/ease-mdlwr/internal/users"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	AuthHandler    *auth.Handler
	AuthMiddleware auth.Middleware
	UsersHandler   *users.Handler
	RBACHandler    *rbac.Handler
	Metrics        *observability.Metrics
}

// NewRouter constructs the chi.Router with service defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	params.AuthHandler.MountRoutes(r)

	if params.RBACHandler != nil {
		r.Group(func(r chi.Router) {
			r.Use(params.AuthMiddleware.RequireToken)
			params.RBACHandler.MountRoutes(r)
		})
	}

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	// Mounted last: the parameterised lookup route must not shadow the
	// static routes above.
	params.UsersHandler.MountRoutes(r)

	return r
}
