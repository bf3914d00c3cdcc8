package addons

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/aeroparkhq/aeropark-backend/internal/bookings"
	"github.com/aeroparkhq/aeropark-backend/internal/garage"
	"github.com/aeroparkhq/aeropark-backend/internal/pricing"
	"github.com/aeroparkhq/aeropark-backend/pkg/db/models"
	"github.com/aeroparkhq/aeropark-backend/pkg/enums"
	pkgerrors "github.com/aeroparkhq/aeropark-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type ratesProvider interface {
	GetRates(ctx context.Context) (garage.Rates, error)
}

// attachableStatuses are the booking states that accept new add-ons.
// Only departed and cancelled bookings are closed to new services.
var attachableStatuses = []enums.BookingStatus{
	enums.BookingStatusPending,
	enums.BookingStatusConfirmed,
	enums.BookingStatusCheckedIn,
}

// Service manages booking add-ons. Attach and Remove keep the booking
// total in sync inside the same transaction.
type Service interface {
	Attach(ctx context.Context, actor bookings.Actor, bookingID uuid.UUID, addonType enums.AddonType) (*bookings.View, error)
	Advance(ctx context.Context, id uuid.UUID) (*models.Addon, error)
	Remove(ctx context.Context, actor bookings.Actor, bookingID, addonID uuid.UUID) (*bookings.View, error)
}

type service struct {
	repo       Repository
	bookingsDB bookings.Repository
	rates      ratesProvider
	tx         txRunner
	now        func() time.Time
}

// NewService wires the add-on service.
func NewService(repo Repository, bookingsDB bookings.Repository, rates ratesProvider, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("addon repository required")
	}
	if bookingsDB == nil {
		return nil, fmt.Errorf("booking repository required")
	}
	if rates == nil {
		return nil, fmt.Errorf("rates provider required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	return &service{
		repo:       repo,
		bookingsDB: bookingsDB,
		rates:      rates,
		tx:         tx,
		now:        time.Now,
	}, nil
}

func (s *service) Attach(ctx context.Context, actor bookings.Actor, bookingID uuid.UUID, addonType enums.AddonType) (*bookings.View, error) {
	if !addonType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid addon type")
	}

	booking, err := s.loadBooking(ctx, actor, bookingID)
	if err != nil {
		return nil, err
	}
	if !attachable(booking.Status) {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidState, fmt.Sprintf("cannot add services to a %s booking", booking.Status)).
			WithDetails(map[string]any{"status": booking.Status})
	}

	rates, err := s.rates.GetRates(ctx)
	if err != nil {
		return nil, err
	}
	price, ok := rates.AddonPrice(addonType)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, fmt.Sprintf("no price configured for %s", addonType))
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		existing, err := repo.FindByBooking(ctx, bookingID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "list addons")
		}
		for _, addon := range existing {
			if addon.AddonType == addonType && addon.Status != enums.AddonStatusDone {
				return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s is already in progress for this booking", addonType))
			}
		}

		addon := &models.Addon{
			BookingID: bookingID,
			AddonType: addonType,
			Status:    enums.AddonStatusPending,
			Price:     price,
		}
		if err := repo.Create(ctx, addon); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "create addon")
		}
		return s.recomputeTotal(ctx, tx, booking, rates)
	})
	if err != nil {
		return nil, err
	}

	return s.view(ctx, bookingID)
}

// Advance moves an add-on one step forward. Advancing a DONE add-on is
// a no-op, and a concurrent advance to the same target counts as done.
// Add-ons on a cancelled booking are inert.
func (s *service) Advance(ctx context.Context, id uuid.UUID) (*models.Addon, error) {
	addon, err := s.loadAddon(ctx, id)
	if err != nil {
		return nil, err
	}
	if addon.Status == enums.AddonStatusDone {
		return addon, nil
	}

	booking, err := s.bookingsDB.FindByID(ctx, addon.BookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "load booking")
	}
	if booking.Status == enums.BookingStatusCancelled {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidState, "cannot advance services on a cancelled booking").
			WithDetails(map[string]any{"bookingStatus": booking.Status})
	}

	target := addon.Status.Next()
	now := s.now().UTC()
	updates := map[string]any{}
	switch target {
	case enums.AddonStatusInProgress:
		updates["started_at"] = now
	case enums.AddonStatusDone:
		updates["completed_at"] = now
	}

	moved, err := s.repo.UpdateStatus(ctx, id, addon.Status, target, updates)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "advance addon")
	}
	if !moved {
		current, err := s.loadAddon(ctx, id)
		if err != nil {
			return nil, err
		}
		return current, nil
	}
	return s.loadAddon(ctx, id)
}

// Remove detaches a not-yet-started add-on and refunds it from the
// booking total.
func (s *service) Remove(ctx context.Context, actor bookings.Actor, bookingID, addonID uuid.UUID) (*bookings.View, error) {
	booking, err := s.loadBooking(ctx, actor, bookingID)
	if err != nil {
		return nil, err
	}

	addon, err := s.loadAddon(ctx, addonID)
	if err != nil {
		return nil, err
	}
	if addon.BookingID != bookingID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "addon not found")
	}
	if addon.Status != enums.AddonStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidState, fmt.Sprintf("cannot remove a %s addon", addon.Status)).
			WithDetails(map[string]any{"status": addon.Status})
	}

	rates, err := s.rates.GetRates(ctx)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Delete(ctx, addonID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "delete addon")
		}
		return s.recomputeTotal(ctx, tx, booking, rates)
	})
	if err != nil {
		return nil, err
	}

	return s.view(ctx, bookingID)
}

// recomputeTotal rebuilds the booking total from the base stay price
// plus every attached add-on. Runs inside the caller's transaction.
func (s *service) recomputeTotal(ctx context.Context, tx *gorm.DB, booking *models.Booking, rates garage.Rates) error {
	dailyRate, ok := rates.DailyRate(booking.SpotType)
	if !ok {
		return pkgerrors.New(pkgerrors.CodeInternal, fmt.Sprintf("no daily rate configured for %s", booking.SpotType))
	}
	quote, err := pricing.Compute(booking.StartDate, booking.EndDate, dailyRate, rates.DailyMax)
	if err != nil {
		return err
	}

	addons, err := s.repo.WithTx(tx).FindByBooking(ctx, booking.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "list addons")
	}
	prices := make([]decimal.Decimal, 0, len(addons))
	for _, addon := range addons {
		prices = append(prices, addon.Price)
	}

	total := pricing.BookingTotal(quote.Total, prices)
	if err := s.bookingsDB.WithTx(tx).UpdateTotalPrice(ctx, booking.ID, total); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "update booking total")
	}
	return nil
}

func (s *service) loadBooking(ctx context.Context, actor bookings.Actor, id uuid.UUID) (*models.Booking, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "booking id required")
	}
	booking, err := s.bookingsDB.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "load booking")
	}
	if actor.Role == enums.UserRoleCustomer && !bookings.OwnedBy(booking, actor.UserID) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
	}
	return booking, nil
}

func (s *service) loadAddon(ctx context.Context, id uuid.UUID) (*models.Addon, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "addon id required")
	}
	addon, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "addon not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "load addon")
	}
	return addon, nil
}

func (s *service) view(ctx context.Context, bookingID uuid.UUID) (*bookings.View, error) {
	booking, err := s.bookingsDB.FindByID(ctx, bookingID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "reload booking")
	}
	return bookings.NewView(booking, s.now()), nil
}

func attachable(status enums.BookingStatus) bool {
	for _, candidate := range attachableStatuses {
		if candidate == status {
			return true
		}
	}
	return false
}
