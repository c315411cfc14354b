package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/lsoria/qrsec-backend/pkg/enums"
)

// User represents a neighbourhood member: an admin, an owner, a guard, or any
// combination of the three.
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string         `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	FirstName    string         `gorm:"column:first_name;not null"`
	LastName     string         `gorm:"column:last_name;not null"`
	DNI          *string        `gorm:"column:dni;uniqueIndex"`
	Phone        *string        `gorm:"column:phone"`
	Roles        pq.StringArray `gorm:"type:text[];not null;default:ARRAY[]::text[]"`
	Enabled      bool           `gorm:"column:enabled;not null;default:false"`
	AddressID    *uuid.UUID     `gorm:"type:uuid;column:address_id"`
	Address      *Address       `gorm:"foreignKey:AddressID"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// HasRole reports whether the user carries the given authority.
func (u *User) HasRole(role enums.Role) bool {
	if u == nil {
		return false
	}
	for _, r := range u.Roles {
		if r == string(role) {
			return true
		}
	}
	return false
}
