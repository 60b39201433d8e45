package violator

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/mvd-portal/internal"
	"github.com/frahmantamala/mvd-portal/internal/core/common/validation"
	violatordm "github.com/frahmantamala/mvd-portal/internal/core/datamodel/violator"
	"github.com/frahmantamala/mvd-portal/internal/store"
)

type Record = violatordm.Record

const DefaultStatus = "Расследование"

// Service manages the violator database collection.
type Service struct {
	records *store.Collection[Record]
	logger  *slog.Logger
}

func NewService(s *store.Store, logger *slog.Logger) *Service {
	return &Service{records: store.Database(s), logger: logger}
}

func (s *Service) List(ctx context.Context, filter store.Filter) ([]Record, error) {
	records, err := s.records.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list violator records", "error", err)
		return nil, internal.FromStoreError(err, internal.ErrRecordNotFound)
	}
	return records, nil
}

func (s *Service) Get(ctx context.Context, id int64) (Record, error) {
	rec, err := s.records.Get(ctx, id)
	if err != nil {
		return Record{}, internal.FromStoreError(err, internal.ErrRecordNotFound)
	}
	return rec, nil
}

func (s *Service) Create(ctx context.Context, dto CreateRecordDTO) (Record, error) {
	if verr := validation.Struct(dto); verr != nil {
		return Record{}, verr
	}
	rec := dto.record()
	if rec.Status == "" {
		rec.Status = DefaultStatus
	}

	created, err := s.records.Create(ctx, rec)
	if err != nil {
		s.logger.Error("failed to create violator record", "error", err)
		return Record{}, internal.FromStoreError(err, internal.ErrRecordNotFound)
	}
	s.logger.Info("violator record created", "record_id", created.ID, "case_number", created.CaseNumber)
	return created, nil
}

func (s *Service) Update(ctx context.Context, id int64, patch store.Patch) (Record, error) {
	updated, err := s.records.Update(ctx, id, patch)
	if err != nil {
		return Record{}, internal.FromStoreError(err, internal.ErrRecordNotFound)
	}
	s.logger.Info("violator record updated", "record_id", id)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.records.Delete(ctx, id); err != nil {
		return internal.FromStoreError(err, internal.ErrRecordNotFound)
	}
	s.logger.Info("violator record deleted", "record_id", id)
	return nil
}
