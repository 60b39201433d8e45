package application

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/frahmantamala/mvd-portal/internal"
	"github.com/frahmantamala/mvd-portal/internal/auth"
	"github.com/frahmantamala/mvd-portal/internal/core/common/validation"
	appdm "github.com/frahmantamala/mvd-portal/internal/core/datamodel/application"
	"github.com/frahmantamala/mvd-portal/internal/core/events"
	"github.com/frahmantamala/mvd-portal/internal/store"
)

// Service handles applications and the responses staff add to them.
type Service struct {
	store     *store.Store
	apps      *store.Collection[appdm.Application]
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(s *store.Store, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		store:     s,
		apps:      store.Applications(s).WithCheck(checkApplication),
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func checkApplication(a appdm.Application) error {
	if !ValidStatus(a.Status) {
		return internal.ErrInvalidStatus
	}
	return nil
}

// List returns matching applications, newest first. Accounts below employee
// only ever see their own applications, whatever the filter says.
func (s *Service) List(ctx context.Context, actor *auth.User, filter store.Filter) ([]appdm.Application, error) {
	if actor == nil {
		return nil, internal.ErrAuthRequired
	}
	if filter == nil {
		filter = store.Filter{}
	}
	if !auth.HasRole(actor, auth.RoleEmployee) {
		filter["author_login"] = actor.Login
	}

	apps, err := s.apps.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list applications", "error", err)
		return nil, internal.FromStoreError(err, internal.ErrApplicationNotFound)
	}
	sort.SliceStable(apps, func(i, j int) bool {
		return createdAt(apps[i]).After(createdAt(apps[j]))
	})
	return apps, nil
}

func (s *Service) Get(ctx context.Context, actor *auth.User, id int64) (appdm.Application, error) {
	app, err := s.apps.Get(ctx, id)
	if err != nil {
		return appdm.Application{}, internal.FromStoreError(err, internal.ErrApplicationNotFound)
	}
	if !canAccess(actor, app) {
		s.logger.Warn("application access denied", "application_id", id, "login", loginOf(actor))
		return appdm.Application{}, internal.ErrNotParticipant
	}
	return app, nil
}

// Create files a new application on behalf of actor.
func (s *Service) Create(ctx context.Context, actor *auth.User, dto CreateApplicationDTO) (appdm.Application, error) {
	if actor == nil {
		return appdm.Application{}, internal.ErrAuthRequired
	}
	if verr := validation.Struct(dto); verr != nil {
		return appdm.Application{}, verr
	}

	app := appdm.Application{
		Type:        dto.Type,
		Title:       dto.Title,
		Author:      actor.Name,
		AuthorLogin: actor.Login,
		Status:      StatusNew,
		Priority:    dto.Priority,
		Department:  dto.Department,
		Description: dto.Description,
		CreatedAt:   s.now().UTC().Format(time.RFC3339),
		Responses:   []appdm.Response{},
	}
	if app.Title == "" {
		app.Title = dto.Type + " от " + actor.Name
	}
	if app.Priority == "" {
		app.Priority = DefaultPriority
	}
	if app.Department == "" {
		app.Department = DefaultDepartment
	}

	created, err := s.apps.Create(ctx, app)
	if err != nil {
		s.logger.Error("failed to create application", "error", err, "login", actor.Login)
		return appdm.Application{}, internal.FromStoreError(err, internal.ErrApplicationNotFound)
	}

	s.logger.Info("application created",
		"application_id", created.ID,
		"type", created.Type,
		"login", actor.Login)
	return created, nil
}

// Update shallow-merges patch into the application.
func (s *Service) Update(ctx context.Context, id int64, patch store.Patch) (appdm.Application, error) {
	updated, err := s.apps.Update(ctx, id, patch)
	if err != nil {
		s.logger.Warn("failed to update application", "application_id", id, "error", err)
		return appdm.Application{}, internal.FromStoreError(err, internal.ErrApplicationNotFound)
	}
	s.logger.Info("application updated", "application_id", id, "status", updated.Status)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.apps.Delete(ctx, id); err != nil {
		return internal.FromStoreError(err, internal.ErrApplicationNotFound)
	}
	s.logger.Info("application deleted", "application_id", id)
	return nil
}

// AddResponse appends a response and applies its action in the same write,
// so a response with an action is never stored without the status change.
func (s *Service) AddResponse(ctx context.Context, actor *auth.User, id int64, dto RespondDTO) (appdm.Application, error) {
	if actor == nil {
		return appdm.Application{}, internal.ErrAuthRequired
	}
	if verr := validation.Struct(dto); verr != nil {
		return appdm.Application{}, verr
	}
	action := dto.Action
	if action == actionResponse {
		action = ""
	}
	if (dto.IsOfficial || action != "") && !auth.HasRole(actor, auth.RoleLeader) {
		return appdm.Application{}, internal.ErrInsufficientRole
	}
	status, hasStatus := StatusForAction(action)
	if action != "" && !hasStatus {
		return appdm.Application{}, internal.ErrInvalidAction
	}

	var responseID int64
	updated, err := store.Mutate(ctx, s.store, func(st *store.State) (appdm.Application, error) {
		idx := s.apps.Index(st, id)
		if idx < 0 {
			return appdm.Application{}, store.ErrNotFound
		}
		app := &st.Applications[idx]
		if !canAccess(actor, *app) {
			return appdm.Application{}, internal.ErrNotParticipant
		}

		responseID = st.NextID()
		app.Responses = append(app.Responses, appdm.Response{
			ID:         responseID,
			Author:     actor.Name,
			Text:       dto.Text,
			CreatedAt:  s.now().UTC().Format(time.RFC3339),
			IsOfficial: dto.IsOfficial,
			Action:     action,
		})
		if hasStatus {
			app.Status = status
		}
		return *app, nil
	})
	if err != nil {
		s.logger.Warn("failed to add response", "application_id", id, "login", actor.Login, "error", err)
		return appdm.Application{}, internal.FromStoreError(err, internal.ErrApplicationNotFound)
	}

	s.logger.Info("application response added",
		"application_id", id,
		"response_id", responseID,
		"action", action,
		"status", updated.Status)
	s.publish(ctx, events.NewApplicationRespondedEvent(id, responseID, actor.Name, action, updated.Status))
	return updated, nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("event publish failed", "event_type", event.EventType(), "error", err)
	}
}

// canAccess lets staff see every application and others only their own.
func canAccess(actor *auth.User, app appdm.Application) bool {
	if actor == nil {
		return false
	}
	return auth.HasRole(actor, auth.RoleEmployee) || app.AuthorLogin == actor.Login
}

func loginOf(actor *auth.User) string {
	if actor == nil {
		return ""
	}
	return actor.Login
}
