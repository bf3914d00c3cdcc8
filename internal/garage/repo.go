package garage

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aeroparkhq/aeropark-backend/pkg/db/models"
	"github.com/aeroparkhq/aeropark-backend/pkg/enums"
	"github.com/aeroparkhq/aeropark-backend/pkg/pagination"
)

// Repository is the storage surface for garage configuration and spots.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListConfig(ctx context.Context) ([]models.GarageConfig, error)
	GetConfig(ctx context.Context, key string) (*models.GarageConfig, error)
	UpsertConfig(ctx context.Context, key, value string) error
	CreateSpot(ctx context.Context, spot *models.ParkingSpot) (*models.ParkingSpot, error)
	FindSpotByID(ctx context.Context, id uuid.UUID) (*models.ParkingSpot, error)
	UpdateSpot(ctx context.Context, id uuid.UUID, updates map[string]any) error
	ListSpots(ctx context.Context, filter SpotFilter, params pagination.Params) ([]models.ParkingSpot, int64, error)
}

// SpotFilter narrows spot listings.
type SpotFilter struct {
	SpotType *enums.SpotType
	Active   *bool
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a garage repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ListConfig(ctx context.Context) ([]models.GarageConfig, error) {
	var rows []models.GarageConfig
	err := r.db.WithContext(ctx).Order("key ASC").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) GetConfig(ctx context.Context, key string) (*models.GarageConfig, error) {
	var row models.GarageConfig
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) UpsertConfig(ctx context.Context, key, value string) error {
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO garage_config (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = CURRENT_TIMESTAMP
	`, key, value).Error
}

func (r *repository) CreateSpot(ctx context.Context, spot *models.ParkingSpot) (*models.ParkingSpot, error) {
	if err := r.db.WithContext(ctx).Create(spot).Error; err != nil {
		return nil, err
	}
	return spot, nil
}

func (r *repository) FindSpotByID(ctx context.Context, id uuid.UUID) (*models.ParkingSpot, error) {
	var spot models.ParkingSpot
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&spot).Error
	if err != nil {
		return nil, err
	}
	return &spot, nil
}

func (r *repository) UpdateSpot(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.ParkingSpot{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) ListSpots(ctx context.Context, filter SpotFilter, params pagination.Params) ([]models.ParkingSpot, int64, error) {
	params = pagination.Normalize(params)

	query := r.db.WithContext(ctx).Model(&models.ParkingSpot{})
	if filter.SpotType != nil {
		query = query.Where("spot_type = ?", *filter.SpotType)
	}
	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var spots []models.ParkingSpot
	err := query.
		Order("code ASC").
		Limit(params.Limit).
		Offset(params.Offset()).
		Find(&spots).Error
	if err != nil {
		return nil, 0, err
	}
	return spots, total, nil
}
