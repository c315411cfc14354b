package users

import (
	"time"

	"github.com/google/uuid"
	"github.com/lsoria/qrsec-backend/pkg/db/models"
)

// UserDTO is the transport shape that omits credentials.
type UserDTO struct {
	ID        uuid.UUID  `json:"id"`
	Email     string     `json:"email"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	DNI       *string    `json:"dni,omitempty"`
	Phone     *string    `json:"phone,omitempty"`
	Roles     []string   `json:"roles"`
	Enabled   bool       `json:"enabled"`
	AddressID *uuid.UUID `json:"address_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// FromModel maps a persisted user into its API projection.
func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		DNI:       u.DNI,
		Phone:     u.Phone,
		Roles:     append([]string(nil), u.Roles...),
		Enabled:   u.Enabled,
		AddressID: u.AddressID,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// FromModels maps a slice of users.
func FromModels(list []models.User) []UserDTO {
	out := make([]UserDTO, 0, len(list))
	for i := range list {
		out = append(out, *FromModel(&list[i]))
	}
	return out
}
