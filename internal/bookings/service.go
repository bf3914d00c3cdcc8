package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aeroparkhq/aeropark-backend/internal/availability"
	"github.com/aeroparkhq/aeropark-backend/internal/garage"
	"github.com/aeroparkhq/aeropark-backend/internal/pricing"
	"github.com/aeroparkhq/aeropark-backend/pkg/db/models"
	"github.com/aeroparkhq/aeropark-backend/pkg/enums"
	pkgerrors "github.com/aeroparkhq/aeropark-backend/pkg/errors"
	"github.com/aeroparkhq/aeropark-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type ratesProvider interface {
	GetRates(ctx context.Context) (garage.Rates, error)
}

type vehicleFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Vehicle, error)
}

// Actor identifies who is calling an operation. Staff and admins may
// operate on any booking; customers only on their own.
type Actor struct {
	UserID uuid.UUID
	Role   enums.UserRole
}

func (a Actor) IsStaff() bool {
	return a.Role == enums.UserRoleStaff || a.Role == enums.UserRoleAdmin
}

// OwnedBy reports whether the booking belongs to the given account.
// Guest bookings belong to nobody; only staff can manage them.
func OwnedBy(b *models.Booking, userID uuid.UUID) bool {
	return b != nil && b.UserID != nil && *b.UserID == userID
}

// Service is the booking lifecycle: create, confirm, check in, check
// out, cancel, plus the read side.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*View, error)
	Get(ctx context.Context, actor Actor, id uuid.UUID) (*View, error)
	List(ctx context.Context, actor Actor, filter ListFilter, params pagination.Params) (pagination.Page[View], error)
	Confirm(ctx context.Context, actor Actor, id uuid.UUID) (*View, error)
	CheckIn(ctx context.Context, actor Actor, id uuid.UUID) (*View, error)
	CheckOut(ctx context.Context, actor Actor, id uuid.UUID, force bool) (*CheckOutResult, error)
	Cancel(ctx context.Context, actor Actor, id uuid.UUID) (*View, error)
}

type service struct {
	repo     Repository
	avail    availability.Repository
	vehicles vehicleFinder
	rates    ratesProvider
	tx       txRunner
	now      func() time.Time
}

// NewService wires the booking service.
func NewService(repo Repository, avail availability.Repository, vehicles vehicleFinder, rates ratesProvider, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("booking repository required")
	}
	if avail == nil {
		return nil, fmt.Errorf("availability repository required")
	}
	if vehicles == nil {
		return nil, fmt.Errorf("vehicle finder required")
	}
	if rates == nil {
		return nil, fmt.Errorf("rates provider required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	return &service{
		repo:     repo,
		avail:    avail,
		vehicles: vehicles,
		rates:    rates,
		tx:       tx,
		now:      time.Now,
	}, nil
}

// Create reserves capacity for a spot type over a date range. Works
// for account holders and guests alike; guests supply contact and
// vehicle details inline. The availability check and the insert run in
// one transaction so two concurrent creates cannot both take the last
// free spot.
func (s *service) Create(ctx context.Context, input CreateInput) (*View, error) {
	if !input.SpotType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid spot type")
	}
	if err := availability.ValidateRange(input.StartDate, input.EndDate); err != nil {
		return nil, err
	}
	guestName := strings.TrimSpace(input.Guest.Name)
	guestEmail := strings.TrimSpace(input.Guest.Email)
	if guestName == "" || guestEmail == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "guest name and email required")
	}

	var (
		vehicleID    *uuid.UUID
		licensePlate string
		vehicleModel string
	)
	switch {
	case input.VehicleID != nil && *input.VehicleID != uuid.Nil:
		if input.UserID == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "registered vehicles require an account")
		}
		vehicle, err := s.vehicles.FindByID(ctx, *input.VehicleID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "load vehicle")
		}
		if vehicle.UserID != *input.UserID {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found")
		}
		vehicleID = &vehicle.ID
		licensePlate = vehicle.LicensePlate
		vehicleModel = fmt.Sprintf("%s %s", vehicle.Make, vehicle.Model)
	case input.Vehicle != nil && strings.TrimSpace(input.Vehicle.LicensePlate) != "":
		licensePlate = strings.TrimSpace(input.Vehicle.LicensePlate)
		vehicleModel = strings.TrimSpace(input.Vehicle.Model)
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a registered vehicle id or a license plate is required")
	}

	rates, err := s.rates.GetRates(ctx)
	if err != nil {
		return nil, err
	}
	dailyRate, ok := rates.DailyRate(input.SpotType)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, fmt.Sprintf("no daily rate configured for %s", input.SpotType))
	}
	quote, err := pricing.Compute(input.StartDate, input.EndDate, dailyRate, rates.DailyMax)
	if err != nil {
		return nil, err
	}

	booking := &models.Booking{
		UserID:       input.UserID,
		VehicleID:    vehicleID,
		SpotType:     input.SpotType,
		StartDate:    input.StartDate.UTC(),
		EndDate:      input.EndDate.UTC(),
		Status:       enums.BookingStatusPending,
		TotalPrice:   quote.Total,
		GuestName:    guestName,
		GuestEmail:   guestEmail,
		GuestPhone:   strings.TrimSpace(input.Guest.Phone),
		LicensePlate: licensePlate,
		VehicleModel: vehicleModel,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		avail := s.avail.WithTx(tx)
		total, err := avail.LockSpotCapacity(ctx, input.SpotType)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "lock spot capacity")
		}
		blocking, err := avail.CountBlockingBookings(ctx, &input.SpotType, booking.StartDate, booking.EndDate)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "count blocking bookings")
		}
		if blocking >= total {
			return pkgerrors.New(pkgerrors.CodeNoAvailability, fmt.Sprintf("no %s spots free for the requested range", input.SpotType)).
				WithDetails(map[string]any{
					"spotType":  input.SpotType,
					"startDate": booking.StartDate,
					"endDate":   booking.EndDate,
				})
		}
		if err := s.repo.WithTx(tx).Create(ctx, booking); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "create booking")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}


	return NewView(booking, s.now()), nil
}

func (s *service) Get(ctx context.Context, actor Actor, id uuid.UUID) (*View, error) {
	booking, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsStaff() && !OwnedBy(booking, actor.UserID) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
	}
	return NewView(booking, s.now()), nil
}

func (s *service) List(ctx context.Context, actor Actor, filter ListFilter, params pagination.Params) (pagination.Page[View], error) {
	if !actor.IsStaff() {
		filter.UserID = &actor.UserID
	}
	if filter.Status != nil && !filter.Status.IsValid() {
		return pagination.Page[View]{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid booking status")
	}

	rows, total, err := s.repo.List(ctx, filter, params)
	if err != nil {
		return pagination.Page[View]{}, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "list bookings")
	}

	now := s.now()
	views := make([]View, 0, len(rows))
	for i := range rows {
		views = append(views, *NewView(&rows[i], now))
	}
	return pagination.NewPage(views, total, params), nil
}

// Confirm moves PENDING to CONFIRMED and pins a concrete spot. The
// spot lock and the status flip share a transaction.
func (s *service) Confirm(ctx context.Context, actor Actor, id uuid.UUID) (*View, error) {
	booking, err := s.authorize(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		spot, err := s.avail.WithTx(tx).LockFreeSpot(ctx, booking.SpotType, booking.StartDate, booking.EndDate)
		if err != nil {
			if availability.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNoAvailability, fmt.Sprintf("no %s spots free for the requested range", booking.SpotType))
			}
			return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "lock spot")
		}
		return s.transition(ctx, s.repo.WithTx(tx), id, enums.BookingStatusPending, enums.BookingStatusConfirmed, map[string]any{
			"spot_id": spot.ID,
		})
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, actor, id)
}

// CheckIn moves CONFIRMED to CHECKED_IN. Rejected before the booked
// start date.
func (s *service) CheckIn(ctx context.Context, actor Actor, id uuid.UUID) (*View, error) {
	booking, err := s.authorize(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if now.Before(booking.StartDate) {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidState, "check-in before booking start date").
			WithDetails(map[string]any{"startDate": booking.StartDate})
	}

	err = s.transition(ctx, s.repo, id, enums.BookingStatusConfirmed, enums.BookingStatusCheckedIn, map[string]any{
		"checked_in_at": now,
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, actor, id)
}

// CheckOut moves CHECKED_IN to CHECKED_OUT and frees the spot. Add-ons
// still in flight do not block checkout; without force they come back
// as warnings.
func (s *service) CheckOut(ctx context.Context, actor Actor, id uuid.UUID, force bool) (*CheckOutResult, error) {
	booking, err := s.authorize(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	var warnings []string
	if !force {
		for _, addon := range booking.Addons {
			if addon.Status != enums.AddonStatusDone {
				warnings = append(warnings, fmt.Sprintf("%s is %s", addon.AddonType, addon.Status))
			}
		}
	}

	now := s.now().UTC()
	err = s.transition(ctx, s.repo, id, enums.BookingStatusCheckedIn, enums.BookingStatusCheckedOut, map[string]any{
		"checked_out_at": now,
		"spot_id":        nil,
	})
	if err != nil {
		return nil, err
	}


	view, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return &CheckOutResult{Booking: view, Warnings: warnings}, nil
}

// Cancel is allowed from PENDING or CONFIRMED only. A confirmed
// booking gives its spot back.
func (s *service) Cancel(ctx context.Context, actor Actor, id uuid.UUID) (*View, error) {
	booking, err := s.authorize(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if !booking.Status.CanTransitionTo(enums.BookingStatusCancelled) {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidState, fmt.Sprintf("cannot cancel a %s booking", booking.Status)).
			WithDetails(map[string]any{"status": booking.Status})
	}

	now := s.now().UTC()
	err = s.transition(ctx, s.repo, id, booking.Status, enums.BookingStatusCancelled, map[string]any{
		"cancelled_at": now,
		"spot_id":      nil,
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, actor, id)
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "booking id required")
	}
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "load booking")
	}
	return booking, nil
}

func (s *service) authorize(ctx context.Context, actor Actor, id uuid.UUID) (*models.Booking, error) {
	booking, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsStaff() && !OwnedBy(booking, actor.UserID) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
	}
	return booking, nil
}

// transition performs the compare-and-set and resolves a lost race
// into the right error: gone means not found, moved means the
// transition is no longer legal.
func (s *service) transition(ctx context.Context, repo Repository, id uuid.UUID, from, to enums.BookingStatus, updates map[string]any) error {
	if !from.CanTransitionTo(to) {
		return illegalTransition(from, to)
	}

	moved, err := repo.UpdateStatus(ctx, id, from, to, updates)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "update booking status")
	}
	if moved {
		return nil
	}

	current, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "reload booking")
	}
	return illegalTransition(current.Status, to)
}

func illegalTransition(from, to enums.BookingStatus) error {
	return pkgerrors.New(pkgerrors.CodeIllegalTransition, fmt.Sprintf("cannot move booking from %s to %s", from, to)).
		WithDetails(map[string]any{"from": from, "to": to})
}
