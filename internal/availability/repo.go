package availability

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aeroparkhq/aeropark-backend/pkg/db/models"
	"github.com/aeroparkhq/aeropark-backend/pkg/enums"
)

// Repository answers capacity questions against spots and bookings.
//
// Two ranges [a1,a2) and [b1,b2) overlap when a1 < b2 AND b1 < a2; ranges
// that merely touch (a2 == b1) do not. CANCELLED and CHECKED_OUT bookings
// never hold capacity.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CountActiveSpots(ctx context.Context, spotType *enums.SpotType) (int64, error)
	CountBlockingBookings(ctx context.Context, spotType *enums.SpotType, start, end time.Time) (int64, error)
	FreeSpots(ctx context.Context, spotType *enums.SpotType, start, end time.Time) ([]models.ParkingSpot, error)
	LockSpotCapacity(ctx context.Context, spotType enums.SpotType) (int64, error)
	LockFreeSpot(ctx context.Context, spotType enums.SpotType, start, end time.Time) (*models.ParkingSpot, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an availability repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CountActiveSpots(ctx context.Context, spotType *enums.SpotType) (int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.ParkingSpot{}).
		Where("active = ?", true)
	if spotType != nil {
		query = query.Where("spot_type = ?", *spotType)
	}
	var total int64
	err := query.Count(&total).Error
	return total, err
}

func (r *repository) CountBlockingBookings(ctx context.Context, spotType *enums.SpotType, start, end time.Time) (int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("status IN ?", enums.BlockingBookingStatuses).
		Where("start_date < ? AND end_date > ?", end, start)
	if spotType != nil {
		query = query.Where("spot_type = ?", *spotType)
	}
	var blocking int64
	err := query.Count(&blocking).Error
	return blocking, err
}

// FreeSpots lists the active spots with no overlapping assigned
// booking, ordered by code. A nil spotType means every type.
func (r *repository) FreeSpots(ctx context.Context, spotType *enums.SpotType, start, end time.Time) ([]models.ParkingSpot, error) {
	query := r.db.WithContext(ctx).
		Model(&models.ParkingSpot{}).
		Where("active = ?", true).
		Where(`NOT EXISTS (
			SELECT 1
			FROM bookings b
			WHERE b.spot_id = parking_spots.id
			  AND b.status IN ('PENDING', 'CONFIRMED', 'CHECKED_IN')
			  AND b.start_date < ?
			  AND b.end_date > ?
		)`, end, start).
		Order("code ASC")
	if spotType != nil {
		query = query.Where("spot_type = ?", *spotType)
	}
	var spots []models.ParkingSpot
	err := query.Find(&spots).Error
	return spots, err
}

// LockSpotCapacity locks the active spot rows of a type and returns
// how many there are. Serializes concurrent creates competing for the
// same capacity; must run inside a transaction.
func (r *repository) LockSpotCapacity(ctx context.Context, spotType enums.SpotType) (int64, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Raw(`
		SELECT id
		FROM parking_spots
		WHERE spot_type = ? AND active = TRUE
		ORDER BY id
		FOR UPDATE
	`, spotType).Scan(&ids).Error
	if err != nil {
		return 0, err
	}
	return int64(len(ids)), nil
}

// LockFreeSpot picks an active spot of the type with no overlapping
// assigned booking and locks its row. Must run inside a transaction;
// SKIP LOCKED keeps concurrent confirms from contending on the same row.
func (r *repository) LockFreeSpot(ctx context.Context, spotType enums.SpotType, start, end time.Time) (*models.ParkingSpot, error) {
	var spot models.ParkingSpot
	err := r.db.WithContext(ctx).Raw(`
		SELECT s.*
		FROM parking_spots s
		WHERE s.spot_type = ?
		  AND s.active = TRUE
		  AND NOT EXISTS (
			SELECT 1
			FROM bookings b
			WHERE b.spot_id = s.id
			  AND b.status IN ('PENDING', 'CONFIRMED', 'CHECKED_IN')
			  AND b.start_date < ?
			  AND b.end_date > ?
		  )
		ORDER BY s.code ASC
		LIMIT 1
		FOR UPDATE OF s SKIP LOCKED
	`, spotType, end, start).Scan(&spot).Error
	if err != nil {
		return nil, err
	}
	if spot.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &spot, nil
}

// IsNotFound reports whether the error is the no-rows sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
