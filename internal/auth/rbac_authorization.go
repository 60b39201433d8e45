package auth

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/mvd-portal/internal"
	"github.com/frahmantamala/mvd-portal/internal/transport"
)

// RBACAuthorization turns the role gate into chi middleware.
type RBACAuthorization struct {
	*transport.BaseHandler
}

func NewRBACAuthorization(logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{BaseHandler: transport.NewBaseHandler(logger)}
}

// RequireRole answers 401 without an authenticated user and 403 when the
// user's role is below required.
func (ra *RBACAuthorization) RequireRole(required string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				ra.Logger.Warn("authorization check failed: user not found in context", "path", r.URL.Path)
				ra.HandleServiceError(w, internal.ErrAuthRequired)
				return
			}

			if !HasRole(user, required) {
				ra.Logger.WarnContext(r.Context(), "access denied: insufficient role",
					"user_id", user.ID,
					"role", user.Role,
					"required_role", required,
					"path", r.URL.Path)
				ra.HandleServiceError(w, internal.ErrInsufficientRole)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (ra *RBACAuthorization) RequireEmployee() func(http.Handler) http.Handler {
	return ra.RequireRole(RoleEmployee)
}

func (ra *RBACAuthorization) RequireLeader() func(http.Handler) http.Handler {
	return ra.RequireRole(RoleLeader)
}

func (ra *RBACAuthorization) RequireAdmin() func(http.Handler) http.Handler {
	return ra.RequireRole(RoleAdmin)
}
