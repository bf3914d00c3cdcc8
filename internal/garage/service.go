package garage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/aeroparkhq/aeropark-backend/pkg/db/models"
	"github.com/aeroparkhq/aeropark-backend/pkg/enums"
	pkgerrors "github.com/aeroparkhq/aeropark-backend/pkg/errors"
	"github.com/aeroparkhq/aeropark-backend/pkg/pagination"
)

// Well-known configuration keys.
const (
	KeyRateStandard      = "rate.standard"
	KeyRatePremium       = "rate.premium"
	KeyRateEV            = "rate.ev"
	KeyRateHandicap      = "rate.handicap"
	KeyRateDailyMax      = "rate.daily_max"
	KeyAddonCarWash      = "addon.car_wash"
	KeyAddonEVCharging   = "addon.ev_charging"
	KeyPendingTTLMinutes = "booking.pending_ttl_minutes"
)

var rateKeyBySpotType = map[enums.SpotType]string{
	enums.SpotTypeStandard: KeyRateStandard,
	enums.SpotTypePremium:  KeyRatePremium,
	enums.SpotTypeEV:       KeyRateEV,
	enums.SpotTypeHandicap: KeyRateHandicap,
}

var priceKeyByAddonType = map[enums.AddonType]string{
	enums.AddonTypeCarWash:    KeyAddonCarWash,
	enums.AddonTypeEVCharging: KeyAddonEVCharging,
}

// Rates is the priced view of the garage configuration.
type Rates struct {
	DailyRates  map[enums.SpotType]decimal.Decimal
	DailyMax    *decimal.Decimal
	AddonPrices map[enums.AddonType]decimal.Decimal
	PendingTTL  time.Duration
}

// DailyRate returns the rate for the spot type.
func (r Rates) DailyRate(spotType enums.SpotType) (decimal.Decimal, bool) {
	rate, ok := r.DailyRates[spotType]
	return rate, ok
}

// AddonPrice returns the configured price for the add-on type.
func (r Rates) AddonPrice(addonType enums.AddonType) (decimal.Decimal, bool) {
	price, ok := r.AddonPrices[addonType]
	return price, ok
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes garage administration and rate lookups.
type Service interface {
	GetRates(ctx context.Context) (Rates, error)
	ListConfig(ctx context.Context) ([]ConfigEntry, error)
	SetConfig(ctx context.Context, key, value string) error
	CreateSpot(ctx context.Context, input CreateSpotInput) (*models.ParkingSpot, error)
	UpdateSpot(ctx context.Context, id uuid.UUID, input UpdateSpotInput) (*models.ParkingSpot, error)
	ListSpots(ctx context.Context, filter SpotFilter, params pagination.Params) (pagination.Page[models.ParkingSpot], error)
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds the garage service.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("garage repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) GetRates(ctx context.Context) (Rates, error) {
	rows, err := s.repo.ListConfig(ctx)
	if err != nil {
		return Rates{}, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "load garage config")
	}

	values := make(map[string]string, len(rows))
	for _, row := range rows {
		values[row.Key] = row.Value
	}

	rates := Rates{
		DailyRates:  make(map[enums.SpotType]decimal.Decimal, len(rateKeyBySpotType)),
		AddonPrices: make(map[enums.AddonType]decimal.Decimal, len(priceKeyByAddonType)),
	}

	for spotType, key := range rateKeyBySpotType {
		raw, ok := values[key]
		if !ok {
			continue
		}
		rate, err := decimal.NewFromString(raw)
		if err != nil {
			return Rates{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("malformed rate for %s", key))
		}
		rates.DailyRates[spotType] = rate
	}

	if raw, ok := values[KeyRateDailyMax]; ok && strings.TrimSpace(raw) != "" {
		capValue, err := decimal.NewFromString(raw)
		if err != nil {
			return Rates{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "malformed daily max")
		}
		rates.DailyMax = &capValue
	}

	for addonType, key := range priceKeyByAddonType {
		raw, ok := values[key]
		if !ok {
			continue
		}
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return Rates{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("malformed price for %s", key))
		}
		rates.AddonPrices[addonType] = price
	}

	if raw, ok := values[KeyPendingTTLMinutes]; ok {
		minutes, err := strconv.Atoi(raw)
		if err != nil {
			return Rates{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "malformed pending ttl")
		}
		rates.PendingTTL = time.Duration(minutes) * time.Minute
	}

	return rates, nil
}

func (s *service) ListConfig(ctx context.Context) ([]ConfigEntry, error) {
	rows, err := s.repo.ListConfig(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "load garage config")
	}
	entries := make([]ConfigEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, ConfigEntry{Key: row.Key, Value: row.Value, UpdatedAt: row.UpdatedAt})
	}
	return entries, nil
}

func (s *service) SetConfig(ctx context.Context, key, value string) error {
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)
	if key == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "config key required")
	}
	if value == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "config value required")
	}
	if err := validateConfigValue(key, value); err != nil {
		return err
	}

	if err := s.repo.UpsertConfig(ctx, key, value); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "store garage config")
	}
	return nil
}

func validateConfigValue(key, value string) error {
	switch key {
	case KeyRateStandard, KeyRatePremium, KeyRateEV, KeyRateHandicap, KeyRateDailyMax, KeyAddonCarWash, KeyAddonEVCharging:
		amount, err := decimal.NewFromString(value)
		if err != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s must be a decimal amount", key))
		}
		if amount.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s cannot be negative", key))
		}
	case KeyPendingTTLMinutes:
		minutes, err := strconv.Atoi(value)
		if err != nil || minutes <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "pending ttl must be a positive integer")
		}
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown config key %s", key))
	}
	return nil
}

func (s *service) CreateSpot(ctx context.Context, input CreateSpotInput) (*models.ParkingSpot, error) {
	code := strings.TrimSpace(input.Code)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "spot code required")
	}
	if !input.SpotType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid spot type")
	}

	spot := &models.ParkingSpot{
		Code:     code,
		SpotType: input.SpotType,
		Floor:    input.Floor,
		Active:   true,
	}
	created, err := s.repo.CreateSpot(ctx, spot)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "create spot")
	}
	return created, nil
}

func (s *service) UpdateSpot(ctx context.Context, id uuid.UUID, input UpdateSpotInput) (*models.ParkingSpot, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "spot id required")
	}

	updates := map[string]any{}
	if input.SpotType != nil {
		if !input.SpotType.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid spot type")
		}
		updates["spot_type"] = *input.SpotType
	}
	if input.Floor != nil {
		updates["floor"] = *input.Floor
	}
	if input.Active != nil {
		updates["active"] = *input.Active
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	var updated *models.ParkingSpot
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindSpotByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "spot not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "load spot")
		}
		if err := repo.UpdateSpot(ctx, id, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "update spot")
		}
		spot, err := repo.FindSpotByID(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "reload spot")
		}
		updated = spot
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) ListSpots(ctx context.Context, filter SpotFilter, params pagination.Params) (pagination.Page[models.ParkingSpot], error) {
	spots, total, err := s.repo.ListSpots(ctx, filter, params)
	if err != nil {
		return pagination.Page[models.ParkingSpot]{}, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "list spots")
	}
	return pagination.NewPage(spots, total, params), nil
}
