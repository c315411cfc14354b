package models

import (
	"time"

	"github.com/google/uuid"
)

// Guest is a physical visitor vouched for by one or more owners. The record is
// unique per national ID; re-registering attaches another owner instead of
// duplicating the guest.
type Guest struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	FirstName string    `gorm:"column:first_name;not null"`
	LastName  string    `gorm:"column:last_name;not null"`
	DNI       string    `gorm:"column:dni;not null;uniqueIndex"`
	Phone     *string   `gorm:"column:phone"`
	Owners    []User    `gorm:"many2many:guest_owners"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
