package bookings

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/aeroparkhq/aeropark-backend/pkg/db/models"
	"github.com/aeroparkhq/aeropark-backend/pkg/enums"
	"github.com/aeroparkhq/aeropark-backend/pkg/pagination"
)

// Repository persists bookings.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, booking *models.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	List(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.Booking, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.BookingStatus, updates map[string]any) (bool, error)
	UpdateTotalPrice(ctx context.Context, id uuid.UUID, total decimal.Decimal) error
	FindExpiredPending(ctx context.Context, before time.Time, limit int) ([]models.Booking, error)
	FindOverdue(ctx context.Context, now time.Time, limit int) ([]models.Booking, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a gorm-backed booking repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, booking *models.Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).
		Preload("Addons").
		First(&booking, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.Booking, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Booking{})
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Overdue {
		query = query.Where("status = ? AND end_date < NOW()", enums.BookingStatusCheckedIn)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Booking
	err := query.
		Preload("Addons").
		Order("start_date DESC, created_at DESC").
		Offset(params.Offset()).
		Limit(pagination.NormalizeLimit(params.Limit)).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// UpdateStatus is a compare-and-set: the row only moves when it still
// holds the expected status. Zero rows affected means somebody got
// there first (or the booking is gone).
func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.BookingStatus, updates map[string]any) (bool, error) {
	values := map[string]any{"status": to}
	for column, value := range updates {
		values[column] = value
	}
	result := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ? AND status = ?", id, from).
		Updates(values)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *repository) UpdateTotalPrice(ctx context.Context, id uuid.UUID, total decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ?", id).
		Update("total_price", total).Error
}

func (r *repository) FindExpiredPending(ctx context.Context, before time.Time, limit int) ([]models.Booking, error) {
	var rows []models.Booking
	err := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", enums.BookingStatusPending, before).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindOverdue(ctx context.Context, now time.Time, limit int) ([]models.Booking, error) {
	var rows []models.Booking
	err := r.db.WithContext(ctx).
		Where("status = ? AND end_date < ?", enums.BookingStatusCheckedIn, now).
		Order("end_date ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
