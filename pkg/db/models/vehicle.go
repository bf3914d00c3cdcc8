package models

import (
	"time"

	"github.com/google/uuid"
)

// Vehicle is a customer-registered car. One per plate per owner.
type Vehicle struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID       uuid.UUID `gorm:"column:user_id;type:uuid;not null;index;uniqueIndex:idx_vehicles_user_plate"`
	LicensePlate string    `gorm:"column:license_plate;not null;uniqueIndex:idx_vehicles_user_plate"`
	Make         string    `gorm:"column:make;not null"`
	Model        string    `gorm:"column:model;not null"`
	Color        *string   `gorm:"column:color"`
	IsDefault    bool      `gorm:"column:is_default;not null;default:false"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
