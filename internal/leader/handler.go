package leader

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/mvd-portal/internal/store"
	"github.com/frahmantamala/mvd-portal/internal/transport"
	"github.com/frahmantamala/mvd-portal/pkg/logger"
)

type ServiceAPI interface {
	List(ctx context.Context, filter store.Filter) ([]Leader, error)
	Get(ctx context.Context, id int64) (Leader, error)
	Create(ctx context.Context, dto CreateLeaderDTO) (Leader, error)
	Update(ctx context.Context, id int64, patch store.Patch) (Leader, error)
	Delete(ctx context.Context, id int64) error
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

func (h *Handler) ListLeaders(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.List(r.Context(), h.QueryFilter(r, "department"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) GetLeader(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r)
	if !ok {
		return
	}
	l, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, l)
}

func (h *Handler) CreateLeader(w http.ResponseWriter, r *http.Request) {
	var dto CreateLeaderDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}
	l, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.Logger.Warn("CreateLeader: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, l)
}

func (h *Handler) UpdateLeader(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r)
	if !ok {
		return
	}
	var patch store.Patch
	if !h.DecodeJSON(w, r, &patch) {
		return
	}
	l, err := h.Service.Update(r.Context(), id, patch)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, l)
}

func (h *Handler) DeleteLeader(w http.ResponseWriter, r *http.Request) {
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
