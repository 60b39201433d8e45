// Package user is the administrators' account management surface.
package user

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/mvd-portal/internal"
	"github.com/frahmantamala/mvd-portal/internal/auth"
	"github.com/frahmantamala/mvd-portal/internal/core/common/validation"
	userdm "github.com/frahmantamala/mvd-portal/internal/core/datamodel/user"
	"github.com/frahmantamala/mvd-portal/internal/store"
)

// Registrar creates accounts; auth.Service implements it.
type Registrar interface {
	Register(ctx context.Context, dto auth.RegisterDTO, allowRole bool) (auth.User, error)
}

type Service struct {
	store     *store.Store
	users     *store.Collection[userdm.User]
	registrar Registrar
	logger    *slog.Logger
}

func NewService(s *store.Store, registrar Registrar, logger *slog.Logger) *Service {
	return &Service{
		store:     s,
		users:     store.Users(s),
		registrar: registrar,
		logger:    logger,
	}
}

// List returns the matching accounts without their passwords.
func (s *Service) List(ctx context.Context, filter store.Filter) ([]auth.User, error) {
	if _, ok := filter["password"]; ok {
		return nil, internal.NewValidationFieldError("password", "filtering by password is not allowed", internal.ErrCodeValidationFailed)
	}
	list, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, internal.FromStoreError(err, internal.ErrUserNotFound)
	}
	out := make([]auth.User, 0, len(list))
	for _, u := range list {
		out = append(out, auth.Sanitize(u))
	}
	return out, nil
}

// Create registers an account with the requested role.
func (s *Service) Create(ctx context.Context, dto auth.RegisterDTO) (auth.User, error) {
	return s.registrar.Register(ctx, dto, true)
}

// UpdateRole changes the role of another non-admin account.
func (s *Service) UpdateRole(ctx context.Context, actor *auth.User, id int64, dto UpdateRoleDTO) (auth.User, error) {
	if verr := validation.Struct(dto); verr != nil {
		return auth.User{}, verr
	}
	if !auth.ValidRole(dto.Role) {
		return auth.User{}, internal.ErrInvalidRole
	}

	updated, err := store.Mutate(ctx, s.store, func(st *store.State) (userdm.User, error) {
		idx := s.users.Index(st, id)
		if idx < 0 {
			return userdm.User{}, store.ErrNotFound
		}
		if err := guard(actor, st.Users[idx]); err != nil {
			return userdm.User{}, err
		}
		st.Users[idx].Role = dto.Role
		return st.Users[idx], nil
	})
	if err != nil {
		s.logger.Warn("role change refused", "target_id", id, "role", dto.Role, "error", err)
		return auth.User{}, internal.FromStoreError(err, internal.ErrUserNotFound)
	}

	s.logger.Info("user role changed", "target_id", id, "role", dto.Role, "by", actor.ID)
	return auth.Sanitize(updated), nil
}

// Delete removes another non-admin account. Unknown ids are ignored.
func (s *Service) Delete(ctx context.Context, actor *auth.User, id int64) error {
	err := s.store.Update(ctx, func(st *store.State) error {
		idx := s.users.Index(st, id)
		if idx < 0 {
			return nil
		}
		if err := guard(actor, st.Users[idx]); err != nil {
			return err
		}
		s.users.DeleteIn(st, id)
		return nil
	})
	if err != nil {
		s.logger.Warn("user deletion refused", "target_id", id, "error", err)
		return internal.FromStoreError(err, internal.ErrUserNotFound)
	}
	s.logger.Info("user deleted", "target_id", id, "by", actor.ID)
	return nil
}

// guard protects the acting admin and every other admin account.
func guard(actor *auth.User, target userdm.User) error {
	if actor == nil {
		return internal.ErrAuthRequired
	}
	if target.ID == actor.ID || target.Role == auth.RoleAdmin {
		return internal.ErrProtectedAccount
	}
	return nil
}
