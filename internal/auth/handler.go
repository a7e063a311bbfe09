package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/ease-mdlwr/ease-mdlwr/internal/platform/httpx"
)

// invalidCredentialsMsg is shared by the unknown-user and wrong-password
// responses so the two failures are indistinguishable in the body.
const invalidCredentialsMsg = "invalid username or password"

// LoginMetrics counts login attempts by outcome.
type LoginMetrics interface {
	RecordLogin(outcome string)
}

// Handler wires the login endpoint.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	metrics   LoginMetrics
	validator *validator.Validate
}

// NewHandler constructs a Handler instance. metrics may be nil.
func NewHandler(logger *slog.Logger, service *Service, metrics LoginMetrics) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		metrics:   metrics,
		validator: validator.New(),
	}
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login/", h.handleLogin)
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string `json:"token"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "username and password are required")
		return
	}

	token, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownUser):
			h.recordLogin("rejected")
			httpx.Problem(w, http.StatusNotFound, "Invalid Credentials", invalidCredentialsMsg)
		case errors.Is(err, ErrInvalidCredentials):
			h.recordLogin("rejected")
			httpx.Problem(w, http.StatusUnauthorized, "Invalid Credentials", invalidCredentialsMsg)
		default:
			h.recordLogin("error")
			h.logger.Error("login", slog.Any("error", err))
			httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		}
		return
	}

	h.recordLogin("ok")
	httpx.JSON(w, http.StatusOK, loginResponse{Token: token})
}

func (h *Handler) recordLogin(outcome string) {
	if h.metrics != nil {
		h.metrics.RecordLogin(outcome)
	}
}
