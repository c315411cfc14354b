package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	dbtypes "github.com/lsoria/qrsec-backend/pkg/db/types"
)

// Invite is a reusable, time-windowed access grant issued by an owner. Days
// hold weekday codes "0"-"6" (Sunday=0); an empty set means every day. Hours
// hold [start,end] pairs; an empty list means any hour.
type Invite struct {
	ID                 uuid.UUID          `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Description        *string            `gorm:"column:description"`
	OwnerID            uuid.UUID          `gorm:"type:uuid;column:owner_id;not null;index"`
	Owner              User               `gorm:"foreignKey:OwnerID"`
	Guests             []Guest            `gorm:"many2many:invite_guests"`
	Days               pq.StringArray     `gorm:"type:text[];not null;default:ARRAY[]::text[]"`
	Hours              dbtypes.HourRanges `gorm:"type:jsonb;not null;default:'[]'"`
	MaxTimeAllowed     *int               `gorm:"column:max_time_allowed"`
	NumberOfPassengers *int               `gorm:"column:number_of_passengers"`
	DropsTrueGuest     bool               `gorm:"column:drops_true_guest;not null;default:false"`
	ArrivalTime        *time.Time         `gorm:"column:arrival_time"`
	DepartureTime      *time.Time         `gorm:"column:departure_time"`
	Enabled            bool               `gorm:"column:enabled;not null;default:true"`
	CreatedAt          time.Time          `gorm:"column:created_at"`
	LastModifiedAt     time.Time          `gorm:"column:last_modified_at"`
}
