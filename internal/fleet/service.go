package fleet

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/frahmantamala/mvd-portal/internal"
	"github.com/frahmantamala/mvd-portal/internal/core/common/validation"
	fleetdm "github.com/frahmantamala/mvd-portal/internal/core/datamodel/fleet"
	"github.com/frahmantamala/mvd-portal/internal/store"
)

type Vehicle = fleetdm.Vehicle

const (
	StatusInService = "В строю"

	// LeadershipDepartment is where vehicles of the leadership group are
	// registered; the group itself is not a department.
	LeadershipDepartment = "Штаб"

	leadershipKey = "isLeadership"
)

type Service struct {
	vehicles *store.Collection[Vehicle]
	logger   *slog.Logger
}

func NewService(s *store.Store, logger *slog.Logger) *Service {
	return &Service{vehicles: store.Fleet(s), logger: logger}
}

// List filters by plain field equality. isLeadership is matched as a boolean
// so that "false" also selects vehicles stored without the flag.
func (s *Service) List(ctx context.Context, filter store.Filter) ([]Vehicle, error) {
	rest := store.Filter{}
	var leadership *bool
	for k, v := range filter {
		if k != leadershipKey {
			rest[k] = v
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, internal.NewValidationFieldError(leadershipKey, "isLeadership must be true or false", internal.ErrCodeValidationFailed)
		}
		leadership = &b
	}

	list, err := s.vehicles.List(ctx, rest)
	if err != nil {
		return nil, internal.FromStoreError(err, internal.ErrVehicleNotFound)
	}
	if leadership == nil {
		return list, nil
	}
	out := list[:0]
	for _, v := range list {
		if v.IsLeadership == *leadership {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id int64) (Vehicle, error) {
	v, err := s.vehicles.Get(ctx, id)
	if err != nil {
		return Vehicle{}, internal.FromStoreError(err, internal.ErrVehicleNotFound)
	}
	return v, nil
}

func (s *Service) Create(ctx context.Context, dto CreateVehicleDTO) (Vehicle, error) {
	if verr := validation.Struct(dto); verr != nil {
		return Vehicle{}, verr
	}
	v := Vehicle{
		Department:   dto.Department,
		Type:         dto.Type,
		Model:        dto.Model,
		Plate:        dto.Plate,
		Status:       dto.Status,
		Notes:        dto.Notes,
		IsLeadership: dto.IsLeadership,
	}
	if v.Status == "" {
		v.Status = StatusInService
	}
	if v.IsLeadership && v.Department == "" {
		v.Department = LeadershipDepartment
	}

	created, err := s.vehicles.Create(ctx, v)
	if err != nil {
		s.logger.Error("failed to register vehicle", "error", err)
		return Vehicle{}, internal.FromStoreError(err, internal.ErrVehicleNotFound)
	}
	s.logger.Info("vehicle registered", "vehicle_id", created.ID, "plate", created.Plate, "department", created.Department)
	return created, nil
}

func (s *Service) Update(ctx context.Context, id int64, patch store.Patch) (Vehicle, error) {
	updated, err := s.vehicles.Update(ctx, id, patch)
	if err != nil {
		return Vehicle{}, internal.FromStoreError(err, internal.ErrVehicleNotFound)
	}
	s.logger.Info("vehicle updated", "vehicle_id", id, "status", updated.Status)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.vehicles.Delete(ctx, id); err != nil {
		return internal.FromStoreError(err, internal.ErrVehicleNotFound)
	}
	s.logger.Info("vehicle removed", "vehicle_id", id)
	return nil
}
