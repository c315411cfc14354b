package enums

import "fmt"

// InviteAction is a guard-initiated state change applied to an invite.
type InviteAction string

const (
	InviteActionArrival   InviteAction = "arrival"
	InviteActionDeparture InviteAction = "departure"
	InviteActionEnable    InviteAction = "enable"
	InviteActionDisable   InviteAction = "disable"
)

var validInviteActions = []InviteAction{
	InviteActionArrival,
	InviteActionDeparture,
	InviteActionEnable,
	InviteActionDisable,
}

// String implements fmt.Stringer.
func (a InviteAction) String() string {
	return string(a)
}

// IsValid reports whether the value is a known InviteAction.
func (a InviteAction) IsValid() bool {
	for _, candidate := range validInviteActions {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseInviteAction converts raw input into an InviteAction. The action set is
// closed; anything else is rejected.
func ParseInviteAction(value string) (InviteAction, error) {
	for _, candidate := range validInviteActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid invite action %q", value)
}
