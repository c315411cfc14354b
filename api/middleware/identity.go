package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/lsoria/qrsec-backend/api/responses"
	"github.com/lsoria/qrsec-backend/internal/identity"
	"github.com/lsoria/qrsec-backend/pkg/auth"
	"github.com/lsoria/qrsec-backend/pkg/config"
	"github.com/lsoria/qrsec-backend/pkg/db/models"
	"github.com/lsoria/qrsec-backend/pkg/enums"
	pkgerrors "github.com/lsoria/qrsec-backend/pkg/errors"
	"github.com/lsoria/qrsec-backend/pkg/logger"
	"gorm.io/gorm"
)

const (
	authorizationHeader = "Authorization"
	bearerPrefix        = "Bearer "
	emailHeader         = "X-Email"
)

type userLookup interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// Identity authenticates the request and stores the caller in the context.
// A Bearer token is authoritative; the legacy X-Email header is accepted as a
// fallback and resolved against the user directory so roles stay server-side.
func Identity(jwtCfg config.JWTConfig, users userLookup, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			caller, err := resolveCaller(ctx, r, jwtCfg, users)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}

			if logg != nil {
				ctx = logg.WithCallerEmail(ctx, caller.Email)
			}
			ctx = WithCaller(ctx, caller)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func resolveCaller(ctx context.Context, r *http.Request, jwtCfg config.JWTConfig, users userLookup) (identity.Caller, error) {
	if header := r.Header.Get(authorizationHeader); strings.HasPrefix(header, bearerPrefix) {
		claims, err := auth.ParseAccessToken(jwtCfg, strings.TrimPrefix(header, bearerPrefix))
		if err != nil {
			return identity.Caller{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
		}
		roles, err := enums.ParseRoles(claims.Roles)
		if err != nil {
			return identity.Caller{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token roles")
		}
		return identity.New(claims.Email, roles), nil
	}

	email := strings.TrimSpace(r.Header.Get(emailHeader))
	if email == "" {
		return identity.Caller{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if users == nil {
		return identity.Caller{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}

	user, err := users.FindByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return identity.Caller{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "unknown caller")
		}
		return identity.Caller{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolving caller")
	}
	if !user.Enabled {
		return identity.Caller{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "account is not enabled")
	}
	roles, err := enums.ParseRoles(user.Roles)
	if err != nil {
		return identity.Caller{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "parsing stored roles")
	}
	return identity.New(user.Email, roles), nil
}
