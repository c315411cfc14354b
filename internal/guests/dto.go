package guests

import (
	"time"

	"github.com/google/uuid"
	"github.com/lsoria/qrsec-backend/pkg/db/models"
)

// OwnerSummary is the owner projection embedded in guest payloads.
type OwnerSummary struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
}

// GuestDTO is the API projection of a guest.
type GuestDTO struct {
	ID        uuid.UUID      `json:"id"`
	FirstName string         `json:"first_name"`
	LastName  string         `json:"last_name"`
	DNI       string         `json:"dni"`
	Phone     *string        `json:"phone,omitempty"`
	Owners    []OwnerSummary `json:"owners"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// FromModel maps a persisted guest into its API projection.
func FromModel(g *models.Guest) *GuestDTO {
	if g == nil {
		return nil
	}
	owners := make([]OwnerSummary, 0, len(g.Owners))
	for _, o := range g.Owners {
		owners = append(owners, OwnerSummary{
			ID:        o.ID,
			Email:     o.Email,
			FirstName: o.FirstName,
			LastName:  o.LastName,
		})
	}
	return &GuestDTO{
		ID:        g.ID,
		FirstName: g.FirstName,
		LastName:  g.LastName,
		DNI:       g.DNI,
		Phone:     g.Phone,
		Owners:    owners,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
}

// FromModels maps a slice of guests.
func FromModels(list []models.Guest) []GuestDTO {
	out := make([]GuestDTO, 0, len(list))
	for i := range list {
		out = append(out, *FromModel(&list[i]))
	}
	return out
}
