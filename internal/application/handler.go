package application

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/mvd-portal/internal"
	"github.com/frahmantamala/mvd-portal/internal/auth"
	appdm "github.com/frahmantamala/mvd-portal/internal/core/datamodel/application"
	"github.com/frahmantamala/mvd-portal/internal/store"
	"github.com/frahmantamala/mvd-portal/internal/transport"
	"github.com/frahmantamala/mvd-portal/pkg/logger"
)

type ServiceAPI interface {
	List(ctx context.Context, actor *auth.User, filter store.Filter) ([]appdm.Application, error)
	Get(ctx context.Context, actor *auth.User, id int64) (appdm.Application, error)
	Create(ctx context.Context, actor *auth.User, dto CreateApplicationDTO) (appdm.Application, error)
	Update(ctx context.Context, id int64, patch store.Patch) (appdm.Application, error)
	Delete(ctx context.Context, id int64) error
	AddResponse(ctx context.Context, actor *auth.User, id int64, dto RespondDTO) (appdm.Application, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

// filterKeys are the query parameters List understands.
var filterKeys = []string{"id", "author_login", "status", "department", "type", "priority"}

func (h *Handler) ListApplications(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, internal.ErrAuthRequired)
		return
	}

	apps, err := h.Service.List(r.Context(), user, h.QueryFilter(r, filterKeys...))
	if err != nil {
		h.Logger.Error("ListApplications: service error", "error", err, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, apps)
}

func (h *Handler) GetApplication(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, internal.ErrAuthRequired)
		return
	}
	id, ok := h.PathID(w, r)
	if !ok {
		return
	}

	app, err := h.Service.Get(r.Context(), user, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, app)
}

func (h *Handler) CreateApplication(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, internal.ErrAuthRequired)
		return
	}

	var dto CreateApplicationDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	app, err := h.Service.Create(r.Context(), user, dto)
	if err != nil {
		h.Logger.Warn("CreateApplication: service error", "error", err, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, app)
}

func (h *Handler) UpdateApplication(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r)
	if !ok {
		return
	}
	var patch store.Patch
	if !h.DecodeJSON(w, r, &patch) {
		return
	}

	app, err := h.Service.Update(r.Context(), id, patch)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, app)
}

func (h *Handler) DeleteApplication(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r)
	if !ok {
		return
	}
	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AddResponse(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, internal.ErrAuthRequired)
		return
	}
	id, ok := h.PathID(w, r)
	if !ok {
		return
	}

	var dto RespondDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	app, err := h.Service.AddResponse(r.Context(), user, id, dto)
	if err != nil {
		h.Logger.Warn("AddResponse: service error", "error", err, "application_id", id, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, app)
}
