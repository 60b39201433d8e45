package employee

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/mvd-portal/internal/store"
	"github.com/frahmantamala/mvd-portal/internal/transport"
	"github.com/frahmantamala/mvd-portal/pkg/logger"
)

type ServiceAPI interface {
	List(ctx context.Context, filter store.Filter) ([]Employee, error)
	Get(ctx context.Context, id int64) (Employee, error)
	Create(ctx context.Context, dto CreateEmployeeDTO) (Employee, error)
	Update(ctx context.Context, id int64, patch store.Patch) (Employee, error)
	Dismiss(ctx context.Context, id int64) error
	ListFired(ctx context.Context, filter store.Filter) ([]FiredEmployee, error)
	DeleteFired(ctx context.Context, id int64) error
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

var filterKeys = []string{"department", "status", "rank", "position", "badgeNumber"}

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.List(r.Context(), h.QueryFilter(r, filterKeys...))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r)
	if !ok {
		return
	}
	e, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var dto CreateEmployeeDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}
	e, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.Logger.Warn("CreateEmployee: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, e)
}

func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r)
	if !ok {
		return
	}
	var patch store.Patch
	if !h.DecodeJSON(w, r, &patch) {
		return
	}
	e, err := h.Service.Update(r.Context(), id, patch)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, e)
}

// DismissEmployee backs DELETE /employees/{id}: the record moves to the
// fired list.
func (h *Handler) DismissEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r)
	if !ok {
		return
	}
	if err := h.Service.Dismiss(r.Context(), id); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListFired(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.ListFired(r.Context(), h.QueryFilter(r, "department", "reason"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) DeleteFired(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r)
	if !ok {
		return
	}
	if err := h.Service.DeleteFired(r.Context(), id); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
