package identity

import (
	"strings"

	"github.com/lsoria/qrsec-backend/pkg/enums"
)

// Caller identifies the authenticated principal on whose behalf a request runs.
// Services receive it explicitly instead of fishing identity out of the context.
type Caller struct {
	Email string
	Roles []enums.Role
}

// New normalizes the email and returns a caller value.
func New(email string, roles []enums.Role) Caller {
	return Caller{
		Email: strings.ToLower(strings.TrimSpace(email)),
		Roles: roles,
	}
}

// Authenticated reports whether the caller carries an identity at all.
func (c Caller) Authenticated() bool {
	return c.Email != ""
}

// HasRole reports whether the caller holds the given role.
func (c Caller) HasRole(role enums.Role) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}
