package news

import (
	"context"
	"log/slog"
	"net/http"

	newsdm "github.com/frahmantamala/mvd-portal/internal/core/datamodel/news"
	"github.com/frahmantamala/mvd-portal/internal/store"
	"github.com/frahmantamala/mvd-portal/internal/transport"
	"github.com/frahmantamala/mvd-portal/pkg/logger"
)

type ServiceAPI interface {
	List(ctx context.Context) ([]newsdm.Article, error)
	Get(ctx context.Context, id int64) (newsdm.Article, error)
	Create(ctx context.Context, dto CreateArticleDTO) (newsdm.Article, error)
	Update(ctx context.Context, id int64, patch store.Patch) (newsdm.Article, error)
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

func (h *Handler) ListNews(w http.ResponseWriter, r *http.Request) {
	articles, err := h.Service.List(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, articles)
}

func (h *Handler) GetNews(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r)
	if !ok {
		return
	}
	article, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, article)
}

func (h *Handler) CreateNews(w http.ResponseWriter, r *http.Request) {
	var dto CreateArticleDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	article, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.Logger.Warn("CreateNews: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, article)
}

func (h *Handler) UpdateNews(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r)
	if !ok {
		return
	}
	var patch store.Patch
	if !h.DecodeJSON(w, r, &patch) {
		return
	}

	article, err := h.Service.Update(r.Context(), id, patch)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, article)
}

func (h *Handler) DeleteNews(w http.ResponseWriter, r *http.Request) {
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
