package invites

import (
	"strings"
	"time"

	"github.com/lsoria/qrsec-backend/pkg/db/models"
)

// VerdictReason explains why an invite was refused at the gate.
type VerdictReason string

const (
	ReasonDisabled        VerdictReason = "DISABLED"
	ReasonBeforeCreation  VerdictReason = "BEFORE_CREATION"
	ReasonAlreadyDeparted VerdictReason = "ALREADY_DEPARTED"
	ReasonOutsideWindow   VerdictReason = "OUTSIDE_WINDOW"
)

// Verdict is the gate's answer for a single invite check.
type Verdict struct {
	Valid  bool          `json:"valid"`
	Reason VerdictReason `json:"reason,omitempty"`
}

// MetricOutcome renders the verdict as a metrics label.
func (v Verdict) MetricOutcome() string {
	if v.Valid {
		return "valid"
	}
	return strings.ToLower(string(v.Reason))
}

type gateRecorder interface {
	RecordValidation(outcome string)
	RecordAction(action string)
}

// CheckAccess evaluates whether an invite admits entry at the given instant.
// The checks run in a fixed order so a disabled invite reports DISABLED even
// when it is also outside its window. ALREADY_DEPARTED only rejects instants
// that predate the recorded departure: it catches a stale scan replayed after
// checkout, not a later re-entry.
func CheckAccess(inv *models.Invite, at time.Time) Verdict {
	switch {
	case !inv.Enabled:
		return Verdict{Reason: ReasonDisabled}
	case at.Before(inv.CreatedAt):
		return Verdict{Reason: ReasonBeforeCreation}
	case inv.DepartureTime != nil && at.Before(*inv.DepartureTime):
		return Verdict{Reason: ReasonAlreadyDeparted}
	case !WithinWindow(inv.Days, inv.Hours, at):
		return Verdict{Reason: ReasonOutsideWindow}
	}
	return Verdict{Valid: true}
}
