package models

import (
	"time"

	"github.com/google/uuid"
)

// Address is a house within the gated neighbourhood.
type Address struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Street        string    `gorm:"column:street;not null"`
	Number        string    `gorm:"column:number;not null"`
	Apartment     *string   `gorm:"column:apartment"`
	Neighbourhood string    `gorm:"column:neighbourhood;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
