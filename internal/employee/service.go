package employee

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/frahmantamala/mvd-portal/internal"
	"github.com/frahmantamala/mvd-portal/internal/core/common/validation"
	employeedm "github.com/frahmantamala/mvd-portal/internal/core/datamodel/employee"
	"github.com/frahmantamala/mvd-portal/internal/core/events"
	"github.com/frahmantamala/mvd-portal/internal/store"
)

type (
	Employee      = employeedm.Employee
	FiredEmployee = employeedm.FiredEmployee
)

const (
	StatusActive   = "Активный"
	StatusInactive = "Неактивный"

	// ReasonDismissed is recorded when the prior status says nothing more.
	ReasonDismissed = "Уволен"

	dateLayout = "2006-01-02"
)

type Service struct {
	store     *store.Store
	employees *store.Collection[Employee]
	fired     *store.Collection[FiredEmployee]
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(s *store.Store, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		store:     s,
		employees: store.Employees(s),
		fired:     store.FiredEmployees(s),
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *Service) List(ctx context.Context, filter store.Filter) ([]Employee, error) {
	list, err := s.employees.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list employees", "error", err)
		return nil, internal.FromStoreError(err, internal.ErrEmployeeNotFound)
	}
	return list, nil
}

func (s *Service) Get(ctx context.Context, id int64) (Employee, error) {
	e, err := s.employees.Get(ctx, id)
	if err != nil {
		return Employee{}, internal.FromStoreError(err, internal.ErrEmployeeNotFound)
	}
	return e, nil
}

func (s *Service) Create(ctx context.Context, dto CreateEmployeeDTO) (Employee, error) {
	if verr := validation.Struct(dto); verr != nil {
		return Employee{}, verr
	}
	e := dto.employee()
	if e.Status == "" {
		e.Status = StatusActive
	}

	created, err := s.employees.Create(ctx, e)
	if err != nil {
		s.logger.Error("failed to create employee", "error", err)
		return Employee{}, internal.FromStoreError(err, internal.ErrEmployeeNotFound)
	}
	s.logger.Info("employee created", "employee_id", created.ID, "department", created.Department)
	return created, nil
}

// Update merges patch into the employee. A "name" key is read as full_name.
func (s *Service) Update(ctx context.Context, id int64, patch store.Patch) (Employee, error) {
	patch = renameLegacyName(patch)
	updated, err := s.employees.Update(ctx, id, patch)
	if err != nil {
		return Employee{}, internal.FromStoreError(err, internal.ErrEmployeeNotFound)
	}
	s.logger.Info("employee updated", "employee_id", id)
	return updated, nil
}

// Dismiss removes the employee and archives it in firedEmployees within the
// same write. Dismissing an unknown id does nothing.
func (s *Service) Dismiss(ctx context.Context, id int64) error {
	today := s.now().Format(dateLayout)

	archived, err := store.Mutate(ctx, s.store, func(st *store.State) (*FiredEmployee, error) {
		removed, ok := s.employees.DeleteIn(st, id)
		if !ok {
			return nil, nil
		}
		rec := FiredEmployee{
			Employee: removed,
			FiredAt:  today,
			Reason:   dismissalReason(removed.Status),
		}
		st.FiredEmployees = append(st.FiredEmployees, rec)
		return &rec, nil
	})
	if err != nil {
		s.logger.Error("failed to dismiss employee", "employee_id", id, "error", err)
		return internal.FromStoreError(err, internal.ErrEmployeeNotFound)
	}
	if archived == nil {
		s.logger.Debug("dismiss: employee already gone", "employee_id", id)
		return nil
	}

	s.logger.Info("employee dismissed", "employee_id", id, "reason", archived.Reason)
	if s.publisher != nil {
		event := events.NewEmployeeDismissedEvent(id, archived.FullName, archived.Reason)
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Warn("event publish failed", "event_type", event.EventType(), "error", err)
		}
	}
	return nil
}

func (s *Service) ListFired(ctx context.Context, filter store.Filter) ([]FiredEmployee, error) {
	list, err := s.fired.List(ctx, filter)
	if err != nil {
		return nil, internal.FromStoreError(err, internal.ErrEmployeeNotFound)
	}
	return list, nil
}

func (s *Service) DeleteFired(ctx context.Context, id int64) error {
	if err := s.fired.Delete(ctx, id); err != nil {
		return internal.FromStoreError(err, internal.ErrEmployeeNotFound)
	}
	s.logger.Info("fired employee record deleted", "employee_id", id)
	return nil
}

func dismissalReason(status string) string {
	if status == "" || status == StatusInactive {
		return ReasonDismissed
	}
	return status
}

func renameLegacyName(patch store.Patch) store.Patch {
	name, ok := patch["name"]
	if !ok {
		return patch
	}
	out := make(store.Patch, len(patch))
	for k, v := range patch {
		if k != "name" {
			out[k] = v
		}
	}
	if _, has := out["full_name"]; !has {
		out["full_name"] = json.RawMessage(name)
	}
	return out
}
