package rbac

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/ease-mdlwr/ease-mdlwr/internal/identity"
	"github.com/ease-mdlwr/ease-mdlwr/internal/platform/httpx"
)

// Handler wires the administrative RBAC endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		validator: validator.New(),
	}
}

// MountRoutes registers rbac routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/permissions/", h.createPermission)
	r.Get("/permissions/", h.listPermissions)
	r.Post("/groups/", h.createGroup)
	r.Post("/groups/{group}/users/{userID}", h.assignUser)
	r.Delete("/groups/{group}/users/{userID}", h.removeUser)
	r.Get("/users/{userID}/groups/", h.userGroups)
	r.Post("/microservices/", h.registerMicroService)
	r.Post("/microservices/{msID}/permissions/{permID}", h.grantPermission)
	r.Delete("/microservices/{msID}/permissions/{permID}", h.revokePermission)
	r.Get("/microservices/{msID}/permissions/", h.microServicePermissions)
}

type createPermissionRequest struct {
	Name string `json:"name" validate:"required"`
}

func (h *Handler) createPermission(w http.ResponseWriter, r *http.Request) {
	var req createPermissionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	view, err := h.service.CreatePermission(r.Context(), req.Name)
	if err != nil {
		h.respondError(w, "create permission", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, view)
}

func (h *Handler) listPermissions(w http.ResponseWriter, r *http.Request) {
	views, err := h.service.ListPermissions(r.Context())
	if err != nil {
		h.respondError(w, "list permissions", err)
		return
	}
	httpx.JSON(w, http.StatusOK, views)
}

type createGroupRequest struct {
	Name        string           `json:"name" validate:"required"`
	Permissions []string         `json:"permissions"`
	Actions     identity.Actions `json:"actions"`
}

func (h *Handler) createGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	view, err := h.service.CreateGroup(r.Context(), req.Name, req.Permissions, req.Actions)
	if err != nil {
		h.respondError(w, "create group", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, view)
}

type registerMicroServiceRequest struct {
	Name      string `json:"name" validate:"required"`
	Host      string `json:"host" validate:"required"`
	BaseRoute string `json:"base_route" validate:"required"`
}

func (h *Handler) registerMicroService(w http.ResponseWriter, r *http.Request) {
	var req registerMicroServiceRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	view, err := h.service.RegisterMicroService(r.Context(), req.Name, req.Host, req.BaseRoute)
	if err != nil {
		h.respondError(w, "register microservice", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, view)
}

func (h *Handler) assignUser(w http.ResponseWriter, r *http.Request) {
	err := h.service.AssignUserToGroup(r.Context(), chi.URLParam(r, "group"), chi.URLParam(r, "userID"))
	if err != nil {
		h.respondError(w, "assign user to group", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) removeUser(w http.ResponseWriter, r *http.Request) {
	err := h.service.RemoveUserFromGroup(r.Context(), chi.URLParam(r, "group"), chi.URLParam(r, "userID"))
	if err != nil {
		h.respondError(w, "remove user from group", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) userGroups(w http.ResponseWriter, r *http.Request) {
	views, err := h.service.GroupsForUser(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		h.respondError(w, "user groups", err)
		return
	}
	httpx.JSON(w, http.StatusOK, views)
}

func (h *Handler) grantPermission(w http.ResponseWriter, r *http.Request) {
	err := h.service.GrantPermission(r.Context(), chi.URLParam(r, "msID"), chi.URLParam(r, "permID"))
	if err != nil {
		h.respondError(w, "grant permission", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) revokePermission(w http.ResponseWriter, r *http.Request) {
	err := h.service.RevokePermission(r.Context(), chi.URLParam(r, "msID"), chi.URLParam(r, "permID"))
	if err != nil {
		h.respondError(w, "revoke permission", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) microServicePermissions(w http.ResponseWriter, r *http.Request) {
	views, err := h.service.MicroServicePermissions(r.Context(), chi.URLParam(r, "msID"))
	if err != nil {
		h.respondError(w, "microservice permissions", err)
		return
	}
	httpx.JSON(w, http.StatusOK, views)
}

// respondError maps service errors onto problem responses.
func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrBadID), errors.Is(err, ErrNameRequired):
		httpx.RespondError(w, httpx.ErrValidation)
	case errors.Is(err, identity.ErrNotFound):
		httpx.RespondError(w, httpx.ErrNotFound)
	case errors.Is(err, identity.ErrDuplicate):
		httpx.RespondError(w, httpx.ErrDuplicate)
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
