package vehicles

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aeroparkhq/aeropark-backend/pkg/db/models"
	"github.com/aeroparkhq/aeropark-backend/pkg/enums"
	pkgerrors "github.com/aeroparkhq/aeropark-backend/pkg/errors"
)

// activeBookingStatuses are the booking states that pin a vehicle.
var activeBookingStatuses = []enums.BookingStatus{
	enums.BookingStatusPending,
	enums.BookingStatusConfirmed,
	enums.BookingStatusCheckedIn,
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// CreateInput captures a new vehicle registration.
type CreateInput struct {
	LicensePlate string  `json:"licensePlate" validate:"required,max=16"`
	Make         string  `json:"make" validate:"required,max=64"`
	Model        string  `json:"model" validate:"required,max=64"`
	Color        *string `json:"color,omitempty" validate:"omitempty,max=32"`
	IsDefault    bool    `json:"isDefault"`
}

// UpdateInput carries partial vehicle updates.
type UpdateInput struct {
	Make      *string `json:"make,omitempty" validate:"omitempty,max=64"`
	Model     *string `json:"model,omitempty" validate:"omitempty,max=64"`
	Color     *string `json:"color,omitempty" validate:"omitempty,max=32"`
	IsDefault *bool   `json:"isDefault,omitempty"`
}

// Service manages a customer's vehicles. At most one vehicle per user
// is the default.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*models.Vehicle, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*models.Vehicle, error)
	List(ctx context.Context, userID uuid.UUID) ([]models.Vehicle, error)
	Update(ctx context.Context, userID, id uuid.UUID, input UpdateInput) (*models.Vehicle, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService wires the vehicle service.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("vehicle repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*models.Vehicle, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	plate := normalizePlate(input.LicensePlate)
	if plate == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "license plate required")
	}
	if strings.TrimSpace(input.Make) == "" || strings.TrimSpace(input.Model) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "make and model required")
	}

	existing, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "list vehicles")
	}
	for _, vehicle := range existing {
		if vehicle.LicensePlate == plate {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("vehicle %s already registered", plate))
		}
	}

	// First vehicle becomes the default automatically.
	isDefault := input.IsDefault || len(existing) == 0

	vehicle := &models.Vehicle{
		UserID:       userID,
		LicensePlate: plate,
		Make:         strings.TrimSpace(input.Make),
		Model:        strings.TrimSpace(input.Model),
		Color:        input.Color,
		IsDefault:    isDefault,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if isDefault && len(existing) > 0 {
			if err := repo.ClearDefault(ctx, userID); err != nil {
				return err
			}
		}
		return repo.Create(ctx, vehicle)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "create vehicle")
	}
	return vehicle, nil
}

func (s *service) Get(ctx context.Context, userID, id uuid.UUID) (*models.Vehicle, error) {
	return s.owned(ctx, userID, id)
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]models.Vehicle, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	vehicles, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "list vehicles")
	}
	return vehicles, nil
}

func (s *service) Update(ctx context.Context, userID, id uuid.UUID, input UpdateInput) (*models.Vehicle, error) {
	vehicle, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Make != nil && strings.TrimSpace(*input.Make) != "" {
		updates["make"] = strings.TrimSpace(*input.Make)
	}
	if input.Model != nil && strings.TrimSpace(*input.Model) != "" {
		updates["model"] = strings.TrimSpace(*input.Model)
	}
	if input.Color != nil {
		updates["color"] = *input.Color
	}
	if input.IsDefault != nil {
		updates["is_default"] = *input.IsDefault
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if input.IsDefault != nil && *input.IsDefault && !vehicle.IsDefault {
			if err := repo.ClearDefault(ctx, userID); err != nil {
				return err
			}
		}
		return repo.Update(ctx, id, updates)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "update vehicle")
	}

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "reload vehicle")
	}
	return updated, nil
}

// Delete refuses while the vehicle still has bookings in flight.
func (s *service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	vehicle, err := s.owned(ctx, userID, id)
	if err != nil {
		return err
	}

	active, err := s.repo.CountActiveBookings(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "count vehicle bookings")
	}
	if active > 0 {
		return pkgerrors.New(pkgerrors.CodeInvalidState, "vehicle has active bookings")
	}

	if err := s.repo.Delete(ctx, vehicle.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "delete vehicle")
	}
	return nil
}

func (s *service) owned(ctx context.Context, userID, id uuid.UUID) (*models.Vehicle, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vehicle id required")
	}
	vehicle, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "load vehicle")
	}
	if vehicle.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found")
	}
	return vehicle, nil
}

func normalizePlate(plate string) string {
	return strings.ToUpper(strings.TrimSpace(plate))
}
