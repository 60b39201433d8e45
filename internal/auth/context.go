package auth

import "context"

type contextKey string

const ContextUserKey contextKey = "auth_user"

func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, ContextUserKey, u)
}

func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(ContextUserKey).(*User)
	return u, ok && u != nil
}
