package invites

import (
	"github.com/lsoria/qrsec-backend/internal/identity"
	"github.com/lsoria/qrsec-backend/pkg/enums"
	pkgerrors "github.com/lsoria/qrsec-backend/pkg/errors"
)

// Operation names an invite action subject to authorization.
type Operation string

const (
	OpCreate   Operation = "create"
	OpRead     Operation = "read"
	OpListAll  Operation = "list_all"
	OpListMine Operation = "list_mine"
	OpUpdate   Operation = "update"
	OpDelete   Operation = "delete"
	OpValidate Operation = "validate"
	OpAction   Operation = "action"
)

// DenyReason explains why an operation was refused.
type DenyReason string

const (
	DenyCallerUnknown DenyReason = "CALLER_NOT_FOUND"
	DenyMissingRole   DenyReason = "MISSING_ROLE"
	DenyNotOwner      DenyReason = "NOT_OWNER"
)

// Decision is the outcome of a policy check.
type Decision struct {
	Allowed bool
	Reason  DenyReason
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason DenyReason) Decision {
	return Decision{Reason: reason}
}

// Err converts a denial into the coded error surfaced to callers.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	if d.Reason == DenyCallerUnknown {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "caller identity is required")
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, "operation not permitted").
		WithDetails(map[string]string{"reason": string(d.Reason)})
}

// Authorize applies the invite access rules for the caller. ownerEmail is the
// email of the invite's owner for operations scoped to a single invite; pass
// the empty string for collection-level operations.
func Authorize(caller identity.Caller, op Operation, ownerEmail string) Decision {
	if !caller.Authenticated() {
		return deny(DenyCallerUnknown)
	}

	switch op {
	case OpCreate, OpListMine:
		if !caller.HasRole(enums.RoleOwner) {
			return deny(DenyMissingRole)
		}
		return allow()

	case OpListAll:
		if !caller.HasRole(enums.RoleAdmin) {
			return deny(DenyMissingRole)
		}
		return allow()

	case OpRead, OpDelete:
		if caller.HasRole(enums.RoleAdmin) {
			return allow()
		}
		if !caller.HasRole(enums.RoleOwner) {
			return deny(DenyMissingRole)
		}
		if ownerEmail != caller.Email {
			return deny(DenyNotOwner)
		}
		return allow()

	case OpUpdate:
		// Editing stays with the issuing owner; admins read and delete but
		// never rewrite someone else's invite.
		if !caller.HasRole(enums.RoleOwner) {
			return deny(DenyMissingRole)
		}
		if ownerEmail != caller.Email {
			return deny(DenyNotOwner)
		}
		return allow()

	case OpValidate, OpAction:
		if !caller.HasRole(enums.RoleGuard) {
			return deny(DenyMissingRole)
		}
		return allow()
	}

	return deny(DenyMissingRole)
}
