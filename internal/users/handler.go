package users

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ease-mdlwr/ease-mdlwr/internal/identity"
	"github.com/ease-mdlwr/ease-mdlwr/internal/platform/httpx"
)

// Handler wires the user lookup endpoint.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers user routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/{userID}/", h.handleGet)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "userID")

	view, err := h.service.Get(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrBadID):
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed user id")
		case errors.Is(err, identity.ErrNotFound):
			httpx.Problem(w, http.StatusNotFound, "Not Found", "user not found")
		default:
			h.logger.Error("get user", slog.String("id", id), slog.Any("error", err))
			// A transient read failure is presented as not found; the
			// caller cannot act on the distinction.
			httpx.Problem(w, http.StatusNotFound, "Not Found", "user not found")
		}
		return
	}

	httpx.JSON(w, http.StatusOK, view)
}
