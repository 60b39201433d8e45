package user

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/mvd-portal/internal"
	"github.com/frahmantamala/mvd-portal/internal/auth"
	"github.com/frahmantamala/mvd-portal/internal/store"
	"github.com/frahmantamala/mvd-portal/internal/transport"
	"github.com/frahmantamala/mvd-portal/pkg/logger"
)

type ServiceAPI interface {
	List(ctx context.Context, filter store.Filter) ([]auth.User, error)
	Create(ctx context.Context, dto auth.RegisterDTO) (auth.User, error)
	UpdateRole(ctx context.Context, actor *auth.User, id int64, dto UpdateRoleDTO) (auth.User, error)
	Delete(ctx context.Context, actor *auth.User, id int64) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

// ListUsers handles GET /users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.List(r.Context(), h.QueryFilter(r, "role", "department", "login"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, users)
}

// CreateUser handles POST /users
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var dto auth.RegisterDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}
	u, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.Logger.Warn("CreateUser: service error", "login", dto.Login, "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, u)
}

// UpdateRole handles PATCH /users/{id}/role
func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, internal.ErrAuthRequired)
		return
	}
	id, ok := h.PathID(w, r)
	if !ok {
		return
	}
	var dto UpdateRoleDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	u, err := h.Service.UpdateRole(r.Context(), actor, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, u)
}

// DeleteUser handles DELETE /users/{id}
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, internal.ErrAuthRequired)
		return
	}
	id, ok := h.PathID(w, r)
	if !ok {
		return
	}
	if err := h.Service.Delete(r.Context(), actor, id); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
