// Package stats serves the dashboard counters.
package stats

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/mvd-portal/internal"
	statsdm "github.com/frahmantamala/mvd-portal/internal/core/datamodel/stats"
	"github.com/frahmantamala/mvd-portal/internal/store"
	"github.com/frahmantamala/mvd-portal/internal/transport"
	"github.com/frahmantamala/mvd-portal/pkg/logger"
)

type Service struct {
	store  *store.Store
	logger *slog.Logger
}

func NewService(s *store.Store, logger *slog.Logger) *Service {
	return &Service{store: s, logger: logger}
}

// Get recomputes the counters from the collections. When they differ from
// the stored copy the new values are written back.
func (s *Service) Get(ctx context.Context) (statsdm.Stats, error) {
	st, err := s.store.Load(ctx)
	if err != nil {
		return statsdm.Stats{}, internal.FromStoreError(err, internal.NewInternalError("stats unavailable", err))
	}
	current := st.ComputeStats()
	if current == st.Stats {
		return current, nil
	}

	fresh, err := store.Mutate(ctx, s.store, func(st *store.State) (statsdm.Stats, error) {
		st.Stats = st.ComputeStats()
		return st.Stats, nil
	})
	if err != nil {
		s.logger.Error("failed to store stats", "error", err)
		return statsdm.Stats{}, internal.FromStoreError(err, internal.NewInternalError("stats unavailable", err))
	}
	s.logger.Debug("stats refreshed", "employees", fresh.Employees, "applications", fresh.Applications)
	return fresh, nil
}

type ServiceAPI interface {
	Get(ctx context.Context) (statsdm.Stats, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.LoggerWrapper()),
		Service:     service,
	}
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.Get(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, stats)
}
