package address

import (
	"time"

	"github.com/google/uuid"
	"github.com/lsoria/qrsec-backend/pkg/db/models"
)

// AddressDTO is the API projection of an address.
type AddressDTO struct {
	ID            uuid.UUID `json:"id"`
	Street        string    `json:"street"`
	Number        string    `json:"number"`
	Apartment     *string   `json:"apartment,omitempty"`
	Neighbourhood string    `json:"neighbourhood"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// FromModel maps a persisted address into its API projection.
func FromModel(a *models.Address) *AddressDTO {
	if a == nil {
		return nil
	}
	return &AddressDTO{
		ID:            a.ID,
		Street:        a.Street,
		Number:        a.Number,
		Apartment:     a.Apartment,
		Neighbourhood: a.Neighbourhood,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

// FromModels maps a slice of addresses.
func FromModels(list []models.Address) []AddressDTO {
	out := make([]AddressDTO, 0, len(list))
	for i := range list {
		out = append(out, *FromModel(&list[i]))
	}
	return out
}
