package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aeroparkhq/aeropark-backend/pkg/enums"
)

// Addon is a service sold on top of a booking (car wash, EV charging).
type Addon struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BookingID   uuid.UUID         `gorm:"column:booking_id;type:uuid;not null;index"`
	AddonType   enums.AddonType   `gorm:"column:addon_type;type:addon_type;not null"`
	Status      enums.AddonStatus `gorm:"column:status;type:addon_status;not null;default:'PENDING'"`
	Price       decimal.Decimal   `gorm:"column:price;type:numeric(12,2);not null"`
	StartedAt   *time.Time        `gorm:"column:started_at"`
	CompletedAt *time.Time        `gorm:"column:completed_at"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
