package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/frahmantamala/mvd-portal/internal"
	"github.com/frahmantamala/mvd-portal/internal/core/common/validation"
	userdm "github.com/frahmantamala/mvd-portal/internal/core/datamodel/user"
	"github.com/frahmantamala/mvd-portal/internal/core/events"
	"github.com/frahmantamala/mvd-portal/internal/store"
	"golang.org/x/crypto/bcrypt"
)

const (
	dateLayout        = "2006-01-02"
	citizenDepartment = "-"
	staffDepartment   = "Штаб"
)

// Service authenticates portal accounts stored in the state blob.
type Service struct {
	store      *store.Store
	users      *store.Collection[userdm.User]
	tokens     TokenGenerator
	bcryptCost int
	publisher  events.Publisher
	logger     *slog.Logger
	now        func() time.Time
}

func NewService(s *store.Store, tokens TokenGenerator, bcryptCost int, publisher events.Publisher, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		store:      s,
		users:      store.Users(s),
		tokens:     tokens,
		bcryptCost: bcryptCost,
		publisher:  publisher,
		logger:     logger,
		now:        time.Now,
	}
}

// Authenticate matches the login exactly (case-sensitive) and records the
// visit in lastActive.
func (s *Service) Authenticate(ctx context.Context, login, password string) (User, error) {
	st, err := s.store.Load(ctx)
	if err != nil {
		return User{}, internal.FromStoreError(err, internal.ErrUserNotFound)
	}

	var found *userdm.User
	for i := range st.Users {
		if st.Users[i].Login == login {
			found = &st.Users[i]
			break
		}
	}
	if found == nil || !VerifyPassword(found.Password, password) {
		s.logger.Warn("login rejected", "login", login)
		return User{}, internal.ErrInvalidCredentials
	}

	today := s.now().Format(dateLayout)
	id := found.ID
	updated, err := store.Mutate(ctx, s.store, func(st *store.State) (userdm.User, error) {
		idx := s.users.Index(st, id)
		if idx < 0 {
			return userdm.User{}, store.ErrNotFound
		}
		st.Users[idx].LastActive = today
		return st.Users[idx], nil
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return User{}, internal.ErrInvalidCredentials
		}
		return User{}, internal.FromStoreError(err, internal.ErrUserNotFound)
	}
	return Sanitize(updated), nil
}

func (s *Service) Login(ctx context.Context, dto LoginDTO) (*LoginResponse, error) {
	if verr := validation.Struct(dto); verr != nil {
		return nil, verr
	}
	u, err := s.Authenticate(ctx, dto.Login, dto.Password)
	if err != nil {
		return nil, err
	}
	tokens, err := s.issueTokens(u)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user logged in", "user_id", u.ID, "role", u.Role)
	return &LoginResponse{User: u, AuthTokens: tokens}, nil
}

// Register creates an account. Unless allowRole is set the role is forced to
// "user"; the department follows the role.
func (s *Service) Register(ctx context.Context, dto RegisterDTO, allowRole bool) (User, error) {
	if verr := validation.Struct(dto); verr != nil {
		return User{}, verr
	}
	role := RoleUser
	if allowRole && dto.Role != "" {
		role = dto.Role
	}
	department := staffDepartment
	if role == RoleUser {
		department = citizenDepartment
	}

	hash, err := s.HashPassword(dto.Password)
	if err != nil {
		return User{}, internal.NewInternalError("failed to hash password", err)
	}

	created, err := store.Mutate(ctx, s.store, func(st *store.State) (userdm.User, error) {
		for _, u := range st.Users {
			if u.Login == dto.Login {
				return userdm.User{}, internal.ErrLoginTaken
			}
		}
		return s.users.InsertIn(st, userdm.User{
			Name:       dto.Name,
			Login:      dto.Login,
			Password:   hash,
			Role:       role,
			Department: department,
			LastActive: s.now().Format(dateLayout),
		}, false)
	})
	if err != nil {
		return User{}, internal.FromStoreError(err, internal.ErrUserNotFound)
	}

	s.logger.Info("user registered", "user_id", created.ID, "login", created.Login, "role", created.Role)
	s.publish(ctx, events.NewUserRegisteredEvent(created.ID, created.Login, created.Role))
	return Sanitize(created), nil
}

// RefreshTokens rotates the token pair. Claims are rebuilt from the stored
// account so role changes are picked up.
func (s *Service) RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return AuthTokens{}, tokenError(err)
	}
	u, err := s.CurrentUser(ctx, claims.UserID)
	if err != nil {
		return AuthTokens{}, internal.ErrInvalidToken
	}
	return s.issueTokens(u)
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	claims, err := s.tokens.ValidateAccessToken(tokenString)
	if err != nil {
		return nil, tokenError(err)
	}
	return claims, nil
}

// CurrentUser loads the sanitized account by id.
func (s *Service) CurrentUser(ctx context.Context, id int64) (User, error) {
	u, err := s.users.Get(ctx, id)
	if err != nil {
		return User{}, internal.FromStoreError(err, internal.ErrUserNotFound)
	}
	return Sanitize(u), nil
}

// HashPassword creates a bcrypt hash of the password
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *Service) RBACAuthorization() *RBACAuthorization {
	return NewRBACAuthorization(s.logger)
}

func (s *Service) issueTokens(u User) (AuthTokens, error) {
	access, err := s.tokens.GenerateAccessToken(u)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to sign access token", err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(u)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to sign refresh token", err)
	}
	var expiresIn int64
	if j, ok := s.tokens.(*JWTTokenGenerator); ok {
		expiresIn = int64(j.AccessTokenTTL.Seconds())
	}
	return AuthTokens{AccessToken: access, RefreshToken: refresh, ExpiresIn: expiresIn}, nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("event publish failed", "event_type", event.EventType(), "error", err)
	}
}

func tokenError(err error) error {
	if errors.Is(err, errTokenExpired) {
		return internal.ErrTokenExpired
	}
	return internal.ErrInvalidToken
}
