package addons

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aeroparkhq/aeropark-backend/pkg/db/models"
	"github.com/aeroparkhq/aeropark-backend/pkg/enums"
)

// Repository persists booking add-ons.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, addon *models.Addon) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Addon, error)
	FindByBooking(ctx context.Context, bookingID uuid.UUID) ([]models.Addon, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.AddonStatus, updates map[string]any) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a gorm-backed add-on repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, addon *models.Addon) error {
	return r.db.WithContext(ctx).Create(addon).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Addon, error) {
	var addon models.Addon
	err := r.db.WithContext(ctx).First(&addon, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &addon, nil
}

func (r *repository) FindByBooking(ctx context.Context, bookingID uuid.UUID) ([]models.Addon, error) {
	var rows []models.Addon
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

// UpdateStatus is a compare-and-set keyed on the current status.
func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.AddonStatus, updates map[string]any) (bool, error) {
	values := map[string]any{"status": to}
	for column, value := range updates {
		values[column] = value
	}
	result := r.db.WithContext(ctx).
		Model(&models.Addon{}).
		Where("id = ? AND status = ?", id, from).
		Updates(values)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Addon{}, "id = ?", id).Error
}
