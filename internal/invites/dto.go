package invites

import (
	"time"

	"github.com/google/uuid"
	"github.com/lsoria/qrsec-backend/pkg/db/models"
	dbtypes "github.com/lsoria/qrsec-backend/pkg/db/types"
)

// GuestSummary is the guest projection embedded in invite payloads.
type GuestSummary struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	DNI       string    `json:"dni"`
}

// InviteDTO is the API projection of an invite.
type InviteDTO struct {
	ID                 uuid.UUID          `json:"id"`
	Description        *string            `json:"description,omitempty"`
	OwnerID            uuid.UUID          `json:"owner_id"`
	OwnerEmail         string             `json:"owner_email,omitempty"`
	Guests             []GuestSummary     `json:"guests"`
	Days               []string           `json:"days"`
	Hours              dbtypes.HourRanges `json:"hours"`
	MaxTimeAllowed     *int               `json:"max_time_allowed,omitempty"`
	NumberOfPassengers *int               `json:"number_of_passengers,omitempty"`
	DropsTrueGuest     bool               `json:"drops_true_guest"`
	ArrivalTime        *time.Time         `json:"arrival_time,omitempty"`
	DepartureTime      *time.Time         `json:"departure_time,omitempty"`
	Enabled            bool               `json:"enabled"`
	CreatedAt          time.Time          `json:"created_at"`
	LastModifiedAt     time.Time          `json:"last_modified_at"`
}

// FromModel maps a persisted invite into its API projection.
func FromModel(inv *models.Invite) *InviteDTO {
	if inv == nil {
		return nil
	}
	guests := make([]GuestSummary, 0, len(inv.Guests))
	for _, g := range inv.Guests {
		guests = append(guests, GuestSummary{
			ID:        g.ID,
			FirstName: g.FirstName,
			LastName:  g.LastName,
			DNI:       g.DNI,
		})
	}
	days := make([]string, len(inv.Days))
	copy(days, inv.Days)

	return &InviteDTO{
		ID:                 inv.ID,
		Description:        inv.Description,
		OwnerID:            inv.OwnerID,
		OwnerEmail:         inv.Owner.Email,
		Guests:             guests,
		Days:               days,
		Hours:              inv.Hours,
		MaxTimeAllowed:     inv.MaxTimeAllowed,
		NumberOfPassengers: inv.NumberOfPassengers,
		DropsTrueGuest:     inv.DropsTrueGuest,
		ArrivalTime:        inv.ArrivalTime,
		DepartureTime:      inv.DepartureTime,
		Enabled:            inv.Enabled,
		CreatedAt:          inv.CreatedAt,
		LastModifiedAt:     inv.LastModifiedAt,
	}
}

// FromModels maps a slice of invites.
func FromModels(list []models.Invite) []InviteDTO {
	out := make([]InviteDTO, 0, len(list))
	for i := range list {
		out = append(out, *FromModel(&list[i]))
	}
	return out
}
