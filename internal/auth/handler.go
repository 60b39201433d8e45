package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/mvd-portal/internal"
	"github.com/frahmantamala/mvd-portal/internal/transport"
	"github.com/frahmantamala/mvd-portal/pkg/logger"
)

type ServiceAPI interface {
	Login(ctx context.Context, dto LoginDTO) (*LoginResponse, error)
	Register(ctx context.Context, dto RegisterDTO, allowRole bool) (User, error)
	RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	CurrentUser(ctx context.Context, id int64) (User, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	resp, err := h.Service.Login(r.Context(), dto)
	if err != nil {
		h.Logger.Warn("Login: authentication failed", "login", dto.Login, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

// Register is the public sign-up endpoint; it always creates a citizen account.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var dto RegisterDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	user, err := h.Service.Register(r.Context(), dto, false)
	if err != nil {
		h.Logger.Warn("Register: failed", "login", dto.Login, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, user)
}

func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var dto RefreshTokenDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}
	if dto.RefreshToken == "" {
		h.HandleServiceError(w, internal.NewValidationFieldError("refresh_token", "refresh_token is required", internal.ErrCodeValidationFailed))
		return
	}

	tokens, err := h.Service.RefreshTokens(r.Context(), dto.RefreshToken)
	if err != nil {
		h.Logger.Warn("RefreshToken: failed", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

// Logout is stateless: tokens are not tracked server-side, so it only checks
// the caller presented a valid one.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := h.ExtractTokenFromHeader(r)
	if token == "" {
		h.HandleServiceError(w, internal.ErrAuthRequired)
		return
	}
	if _, err := h.Service.ValidateAccessToken(token); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, internal.ErrAuthRequired)
		return
	}
	h.WriteJSON(w, http.StatusOK, user)
}

// AuthMiddleware validates the bearer token and reloads the account so that
// role changes and deletions apply to tokens already issued.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.Logger.Warn("auth middleware: missing authorization token", "path", r.URL.Path)
			h.HandleServiceError(w, internal.ErrAuthRequired)
			return
		}

		claims, err := h.Service.ValidateAccessToken(token)
		if err != nil {
			h.Logger.Warn("auth middleware: token validation failed", "error", err)
			h.HandleServiceError(w, err)
			return
		}

		user, err := h.Service.CurrentUser(r.Context(), claims.UserID)
		if errors.Is(err, internal.ErrUserNotFound) {
			h.Logger.Warn("auth middleware: account no longer exists", "user_id", claims.UserID)
			h.HandleServiceError(w, internal.ErrInvalidToken)
			return
		}
		if err != nil {
			h.Logger.Error("auth middleware: account lookup failed", "user_id", claims.UserID, "error", err)
			h.HandleServiceError(w, err)
			return
		}

		ctx := WithUser(r.Context(), &user)
		ctx = logger.With(ctx, "user_id", user.ID, "role", user.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
