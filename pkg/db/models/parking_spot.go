package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/aeroparkhq/aeropark-backend/pkg/enums"
)

// ParkingSpot is a single physical space in the garage.
type ParkingSpot struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Code      string         `gorm:"column:code;not null;uniqueIndex"`
	SpotType  enums.SpotType `gorm:"column:spot_type;type:spot_type;not null;default:'STANDARD'"`
	Floor     int            `gorm:"column:floor;not null;default:0"`
	Active    bool           `gorm:"column:active;not null;default:true"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
