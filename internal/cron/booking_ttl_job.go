package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/aeroparkhq/aeropark-backend/internal/bookings"
	"github.com/aeroparkhq/aeropark-backend/internal/garage"
	"github.com/aeroparkhq/aeropark-backend/pkg/enums"
	"github.com/aeroparkhq/aeropark-backend/pkg/logger"
)

const (
	defaultPendingTTL = 30 * time.Minute
	defaultBatchSize  = 100
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type ratesProvider interface {
	GetRates(ctx context.Context) (garage.Rates, error)
}

// BookingTTLJobParams configure the stale booking sweeper.
type BookingTTLJobParams struct {
	Logger    *logger.Logger
	DB        txRunner
	Repo      bookings.Repository
	Rates     ratesProvider
	BatchSize int
}

// NewBookingTTLJob builds the cron job that cancels stale pending
// bookings and reports overdue check-ins.
func NewBookingTTLJob(params BookingTTLJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("booking repository required")
	}
	if params.Rates == nil {
		return nil, fmt.Errorf("rates provider required")
	}
	batch := params.BatchSize
	if batch <= 0 {
		batch = defaultBatchSize
	}
	return &bookingTTLJob{
		logg:  params.Logger,
		db:    params.DB,
		repo:  params.Repo,
		rates: params.Rates,
		batch: batch,
		now:   time.Now,
	}, nil
}

type bookingTTLJob struct {
	logg  *logger.Logger
	db    txRunner
	repo  bookings.Repository
	rates ratesProvider
	batch int
	now   func() time.Time
}

func (j *bookingTTLJob) Name() string { return "booking-ttl" }

func (j *bookingTTLJob) Run(ctx context.Context) error {
	var errs []error
	if err := j.expirePendingBookings(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := j.reportOverdueBookings(ctx); err != nil {
		errs = append(errs, err)
	}
	return multierr.Combine(errs...)
}

// expirePendingBookings cancels bookings that sat in PENDING past the
// configured TTL. The compare-and-set means a booking confirmed while
// the sweep runs is left alone.
func (j *bookingTTLJob) expirePendingBookings(ctx context.Context) error {
	ttl := j.pendingTTL(ctx)
	now := j.now().UTC()
	cutoff := now.Add(-ttl)

	stale, err := j.repo.FindExpiredPending(ctx, cutoff, j.batch)
	if err != nil {
		return fmt.Errorf("query stale pending bookings: %w", err)
	}

	cancelled := 0
	for _, booking := range stale {
		err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
			moved, err := j.repo.WithTx(tx).UpdateStatus(ctx, booking.ID,
				enums.BookingStatusPending, enums.BookingStatusCancelled,
				map[string]any{"cancelled_at": now})
			if err != nil {
				return err
			}
			if moved {
				cancelled++
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("cancel stale booking %s: %w", booking.ID, err)
		}
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{"scanned": len(stale), "cancelled": cancelled, "ttl": ttl.String()})
	j.logg.Info(logCtx, "pending booking sweep complete")
	return nil
}

// reportOverdueBookings surfaces checked-in bookings past their end
// date. They stay CHECKED_IN until a staff checkout; the log line is
// what the ops dashboard alerts on.
func (j *bookingTTLJob) reportOverdueBookings(ctx context.Context) error {
	now := j.now().UTC()
	overdue, err := j.repo.FindOverdue(ctx, now, j.batch)
	if err != nil {
		return fmt.Errorf("query overdue bookings: %w", err)
	}

	for _, booking := range overdue {
		logCtx := j.logg.WithBookingID(ctx, booking.ID.String())
		logCtx = j.logg.WithFields(logCtx, map[string]any{
			"end_date":      booking.EndDate.Format(time.RFC3339),
			"overdue_hours": int(now.Sub(booking.EndDate).Hours()),
		})
		j.logg.Warn(logCtx, "booking overdue for checkout")
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{"count": len(overdue)})
	j.logg.Info(logCtx, "overdue booking sweep complete")
	return nil
}

func (j *bookingTTLJob) pendingTTL(ctx context.Context) time.Duration {
	rates, err := j.rates.GetRates(ctx)
	if err != nil || rates.PendingTTL <= 0 {
		return defaultPendingTTL
	}
	return rates.PendingTTL
}
