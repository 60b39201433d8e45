package violator

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/mvd-portal/internal/store"
	"github.com/frahmantamala/mvd-portal/internal/transport"
	"github.com/frahmantamala/mvd-portal/pkg/logger"
)

type ServiceAPI interface {
	List(ctx context.Context, filter store.Filter) ([]Record, error)
	Get(ctx context.Context, id int64) (Record, error)
	Create(ctx context.Context, dto CreateRecordDTO) (Record, error)
	Update(ctx context.Context, id int64, patch store.Patch) (Record, error)
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

var filterKeys = []string{"status", "department", "caseType", "caseNumber", "officer", "document"}

func (h *Handler) ListRecords(w http.ResponseWriter, r *http.Request) {
	records, err := h.Service.List(r.Context(), h.QueryFilter(r, filterKeys...))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, records)
}

func (h *Handler) GetRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r)
	if !ok {
		return
	}
	rec, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, rec)
}

func (h *Handler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	var dto CreateRecordDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}
	rec, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.Logger.Warn("CreateRecord: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, rec)
}

func (h *Handler) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r)
	if !ok {
		return
	}
	var patch store.Patch
	if !h.DecodeJSON(w, r, &patch) {
		return
	}
	rec, err := h.Service.Update(r.Context(), id, patch)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, rec)
}

func (h *Handler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
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
