package leader

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/mvd-portal/internal"
	"github.com/frahmantamala/mvd-portal/internal/core/common/validation"
	leaderdm "github.com/frahmantamala/mvd-portal/internal/core/datamodel/leader"
	"github.com/frahmantamala/mvd-portal/internal/store"
)

type Leader = leaderdm.Leader

const PlaceholderPhoto = "https://via.placeholder.com/200/200?text=Leader"

type Service struct {
	leaders *store.Collection[Leader]
	logger  *slog.Logger
}

func NewService(s *store.Store, logger *slog.Logger) *Service {
	return &Service{leaders: store.Leaders(s), logger: logger}
}

func (s *Service) List(ctx context.Context, filter store.Filter) ([]Leader, error) {
	list, err := s.leaders.List(ctx, filter)
	if err != nil {
		return nil, internal.FromStoreError(err, internal.ErrLeaderNotFound)
	}
	return list, nil
}

func (s *Service) Get(ctx context.Context, id int64) (Leader, error) {
	l, err := s.leaders.Get(ctx, id)
	if err != nil {
		return Leader{}, internal.FromStoreError(err, internal.ErrLeaderNotFound)
	}
	return l, nil
}

func (s *Service) Create(ctx context.Context, dto CreateLeaderDTO) (Leader, error) {
	if verr := validation.Struct(dto); verr != nil {
		return Leader{}, verr
	}
	photo := dto.Photo
	if photo == "" {
		photo = PlaceholderPhoto
	}

	created, err := s.leaders.Create(ctx, Leader{
		FullName:   dto.FullName,
		Position:   dto.Position,
		Department: dto.Department,
		Photo:      photo,
		Bio:        dto.Bio,
		Contacts:   dto.Contacts,
	})
	if err != nil {
		s.logger.Error("failed to create leader", "error", err)
		return Leader{}, internal.FromStoreError(err, internal.ErrLeaderNotFound)
	}
	s.logger.Info("leader added", "leader_id", created.ID, "position", created.Position)
	return created, nil
}

func (s *Service) Update(ctx context.Context, id int64, patch store.Patch) (Leader, error) {
	updated, err := s.leaders.Update(ctx, id, patch)
	if err != nil {
		return Leader{}, internal.FromStoreError(err, internal.ErrLeaderNotFound)
	}
	s.logger.Info("leader updated", "leader_id", id)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.leaders.Delete(ctx, id); err != nil {
		return internal.FromStoreError(err, internal.ErrLeaderNotFound)
	}
	s.logger.Info("leader removed", "leader_id", id)
	return nil
}
