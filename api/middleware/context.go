package middleware

import (
	"context"

	"github.com/lsoria/qrsec-backend/internal/identity"
	"github.com/lsoria/qrsec-backend/pkg/enums"
)

type contextKey string

const (
	ctxEmail contextKey = "caller_email"
	ctxRoles contextKey = "caller_roles"
)

// WithCaller injects the authenticated caller into the context.
func WithCaller(ctx context.Context, caller identity.Caller) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxEmail, caller.Email)
	return context.WithValue(ctx, ctxRoles, caller.Roles)
}

// EmailFromContext returns the caller email, or the empty string.
func EmailFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxEmail).(string); ok {
		return v
	}
	return ""
}

// RolesFromContext returns the caller roles, or nil.
func RolesFromContext(ctx context.Context) []enums.Role {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxRoles).([]enums.Role); ok {
		return v
	}
	return nil
}

// CallerFromContext reassembles the caller stored by the identity middleware.
func CallerFromContext(ctx context.Context) identity.Caller {
	return identity.Caller{
		Email: EmailFromContext(ctx),
		Roles: RolesFromContext(ctx),
	}
}
