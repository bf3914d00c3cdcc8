package bookings

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aeroparkhq/aeropark-backend/pkg/db/models"
	"github.com/aeroparkhq/aeropark-backend/pkg/enums"
)

// GuestInfo is the contact snapshot stored on every booking. For guest
// checkouts it is the only identity kept.
type GuestInfo struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone"`
}

// VehicleInfo is an inline vehicle snapshot for callers without a
// registered vehicle.
type VehicleInfo struct {
	LicensePlate string `json:"licensePlate" validate:"required"`
	Model        string `json:"model"`
}

// CreateInput captures a booking request. UserID is nil on the guest
// path; either VehicleID or an inline Vehicle must be present.
type CreateInput struct {
	UserID    *uuid.UUID
	VehicleID *uuid.UUID     `json:"vehicleId"`
	Guest     GuestInfo      `json:"guest"`
	Vehicle   *VehicleInfo   `json:"vehicle"`
	SpotType  enums.SpotType `json:"spotType" validate:"required"`
	StartDate time.Time      `json:"startDate" validate:"required"`
	EndDate   time.Time      `json:"endDate" validate:"required"`
}

// ListFilter narrows booking listings.
type ListFilter struct {
	UserID  *uuid.UUID
	Status  *enums.BookingStatus
	Overdue bool
}

// AddonView is the projection of one add-on inside a booking view.
type AddonView struct {
	ID          uuid.UUID         `json:"id"`
	AddonType   enums.AddonType   `json:"addonType"`
	Status      enums.AddonStatus `json:"status"`
	Price       decimal.Decimal   `json:"price"`
	StartedAt   *time.Time        `json:"startedAt,omitempty"`
	CompletedAt *time.Time        `json:"completedAt,omitempty"`
}

// View is the read projection of a booking. IsOverdue is derived at read
// time: still checked in past the booked end date.
type View struct {
	ID           uuid.UUID           `json:"id"`
	UserID       *uuid.UUID          `json:"userId,omitempty"`
	VehicleID    *uuid.UUID          `json:"vehicleId,omitempty"`
	SpotID       *uuid.UUID          `json:"spotId,omitempty"`
	SpotType     enums.SpotType      `json:"spotType"`
	StartDate    time.Time           `json:"startDate"`
	EndDate      time.Time           `json:"endDate"`
	Status       enums.BookingStatus `json:"status"`
	TotalPrice   decimal.Decimal     `json:"totalPrice"`
	GuestName    string              `json:"guestName"`
	GuestEmail   string              `json:"guestEmail"`
	GuestPhone   string              `json:"guestPhone,omitempty"`
	LicensePlate string              `json:"licensePlate"`
	VehicleModel string              `json:"vehicleModel"`
	IsOverdue    bool                `json:"isOverdue"`
	CheckedInAt  *time.Time          `json:"checkedInAt,omitempty"`
	CheckedOutAt *time.Time          `json:"checkedOutAt,omitempty"`
	CancelledAt  *time.Time          `json:"cancelledAt,omitempty"`
	Addons       []AddonView         `json:"addons"`
	CreatedAt    time.Time           `json:"createdAt"`
}

// CheckOutResult pairs the updated booking with any incomplete add-on
// warnings raised during checkout.
type CheckOutResult struct {
	Booking  *View    `json:"booking"`
	Warnings []string `json:"warnings,omitempty"`
}

// NewView projects a booking row.
func NewView(b *models.Booking, now time.Time) *View {
	if b == nil {
		return nil
	}
	addons := make([]AddonView, 0, len(b.Addons))
	for _, addon := range b.Addons {
		addons = append(addons, AddonView{
			ID:          addon.ID,
			AddonType:   addon.AddonType,
			Status:      addon.Status,
			Price:       addon.Price,
			StartedAt:   addon.StartedAt,
			CompletedAt: addon.CompletedAt,
		})
	}
	return &View{
		ID:           b.ID,
		UserID:       b.UserID,
		VehicleID:    b.VehicleID,
		SpotID:       b.SpotID,
		SpotType:     b.SpotType,
		StartDate:    b.StartDate,
		EndDate:      b.EndDate,
		Status:       b.Status,
		TotalPrice:   b.TotalPrice,
		GuestName:    b.GuestName,
		GuestEmail:   b.GuestEmail,
		GuestPhone:   b.GuestPhone,
		LicensePlate: b.LicensePlate,
		VehicleModel: b.VehicleModel,
		IsOverdue:    IsOverdue(b, now),
		CheckedInAt:  b.CheckedInAt,
		CheckedOutAt: b.CheckedOutAt,
		CancelledAt:  b.CancelledAt,
		Addons:       addons,
		CreatedAt:    b.CreatedAt,
	}
}

// IsOverdue reports whether the booking is still checked in past its end date.
func IsOverdue(b *models.Booking, now time.Time) bool {
	return b != nil && b.Status == enums.BookingStatusCheckedIn && now.After(b.EndDate)
}
