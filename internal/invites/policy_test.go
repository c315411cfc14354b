package invites

import (
	"testing"

	"github.com/lsoria/qrsec-backend/internal/identity"
	"github.com/lsoria/qrsec-backend/pkg/enums"
	pkgerrors "github.com/lsoria/qrsec-backend/pkg/errors"
)

func caller(email string, roles ...enums.Role) identity.Caller {
	return identity.New(email, roles)
}

func TestAuthorizeRejectsAnonymous(t *testing.T) {
	d := Authorize(identity.Caller{}, OpRead, "owner@x.com")
	if d.Allowed {
		t.Fatal("anonymous caller must be denied")
	}
	if d.Reason != DenyCallerUnknown {
		t.Fatalf("expected CALLER_NOT_FOUND, got %s", d.Reason)
	}
	if typed := pkgerrors.As(d.Err()); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", d.Err())
	}
}

func TestAuthorizeDecisionTable(t *testing.T) {
	owner := caller("owner@x.com", enums.RoleOwner)
	admin := caller("admin@x.com", enums.RoleAdmin)
	guard := caller("guard@x.com", enums.RoleGuard)

	cases := []struct {
		name       string
		c          identity.Caller
		op         Operation
		ownerEmail string
		allowed    bool
		reason     DenyReason
	}{
		{"owner creates", owner, OpCreate, "", true, ""},
		{"guard cannot create", guard, OpCreate, "", false, DenyMissingRole},
		{"admin lists all", admin, OpListAll, "", true, ""},
		{"owner cannot list all", owner, OpListAll, "", false, DenyMissingRole},
		{"owner lists mine", owner, OpListMine, "", true, ""},
		{"admin without owner role cannot list mine", admin, OpListMine, "", false, DenyMissingRole},
		{"owner reads own", owner, OpRead, "owner@x.com", true, ""},
		{"owner cannot read another's", owner, OpRead, "other@x.com", false, DenyNotOwner},
		{"admin reads any", admin, OpRead, "other@x.com", true, ""},
		{"owner updates own", owner, OpUpdate, "owner@x.com", true, ""},
		{"owner cannot update another's", owner, OpUpdate, "other@x.com", false, DenyNotOwner},
		{"admin without owner role cannot update", admin, OpUpdate, "other@x.com", false, DenyMissingRole},
		{"admin-owner cannot update another's", caller("admin@x.com", enums.RoleAdmin, enums.RoleOwner), OpUpdate, "other@x.com", false, DenyNotOwner},
		{"owner cannot delete another's", owner, OpDelete, "other@x.com", false, DenyNotOwner},
		{"admin deletes any", admin, OpDelete, "other@x.com", true, ""},
		{"guard validates", guard, OpValidate, "", true, ""},
		{"owner cannot validate", owner, OpValidate, "", false, DenyMissingRole},
		{"guard applies actions", guard, OpAction, "", true, ""},
		{"admin without guard role cannot apply actions", admin, OpAction, "", false, DenyMissingRole},
	}
	for _, tc := range cases {
		d := Authorize(tc.c, tc.op, tc.ownerEmail)
		if d.Allowed != tc.allowed {
			t.Errorf("%s: expected allowed=%v", tc.name, tc.allowed)
			continue
		}
		if !tc.allowed && d.Reason != tc.reason {
			t.Errorf("%s: expected reason %s, got %s", tc.name, tc.reason, d.Reason)
		}
	}
}

func TestAuthorizeMultipleRoles(t *testing.T) {
	both := caller("multi@x.com", enums.RoleOwner, enums.RoleGuard)

	if d := Authorize(both, OpCreate, ""); !d.Allowed {
		t.Fatal("owner role must allow create")
	}
	if d := Authorize(both, OpValidate, ""); !d.Allowed {
		t.Fatal("guard role must allow validate")
	}
}

func TestDecisionErrCarriesReason(t *testing.T) {
	d := Authorize(caller("owner@x.com", enums.RoleOwner), OpRead, "other@x.com")
	err := d.Err()
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok || details["reason"] != string(DenyNotOwner) {
		t.Fatalf("expected NOT_OWNER detail, got %v", typed.Details())
	}
}

func TestDecisionErrNilWhenAllowed(t *testing.T) {
	if err := (Decision{Allowed: true}).Err(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}
