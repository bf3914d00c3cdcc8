package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aeroparkhq/aeropark-backend/pkg/enums"
)

// Booking reserves a spot type for a date range. SpotID stays nil until
// the booking is confirmed and a concrete spot is assigned. UserID and
// VehicleID are nil for guest checkouts; the guest_* and vehicle
// snapshot columns keep the booking self-contained either way.
type Booking struct {
	ID           uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID       *uuid.UUID          `gorm:"column:user_id;type:uuid;index"`
	VehicleID    *uuid.UUID          `gorm:"column:vehicle_id;type:uuid"`
	SpotID       *uuid.UUID          `gorm:"column:spot_id;type:uuid;index"`
	SpotType     enums.SpotType      `gorm:"column:spot_type;type:spot_type;not null"`
	StartDate    time.Time           `gorm:"column:start_date;not null;index"`
	EndDate      time.Time           `gorm:"column:end_date;not null;index"`
	Status       enums.BookingStatus `gorm:"column:status;type:booking_status;not null;default:'PENDING'"`
	TotalPrice   decimal.Decimal     `gorm:"column:total_price;type:numeric(12,2);not null"`
	GuestName    string              `gorm:"column:guest_name;not null"`
	GuestEmail   string              `gorm:"column:guest_email;not null"`
	GuestPhone   string              `gorm:"column:guest_phone;not null;default:''"`
	LicensePlate string              `gorm:"column:license_plate;not null"`
	VehicleModel string              `gorm:"column:vehicle_model;not null"`
	CheckedInAt  *time.Time          `gorm:"column:checked_in_at"`
	CheckedOutAt *time.Time          `gorm:"column:checked_out_at"`
	CancelledAt  *time.Time          `gorm:"column:cancelled_at"`
	Addons       []Addon             `gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
