package paymentmethods

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aeroparkhq/aeropark-backend/pkg/db/models"
	"github.com/aeroparkhq/aeropark-backend/pkg/enums"
	pkgerrors "github.com/aeroparkhq/aeropark-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// AddInput captures opaque card metadata for display. Charging happens
// outside this system, so no PAN or token is stored.
type AddInput struct {
	Kind      enums.PaymentMethodKind `json:"kind" validate:"required"`
	Brand     *string                 `json:"brand,omitempty" validate:"omitempty,max=32"`
	Last4     *string                 `json:"last4,omitempty" validate:"omitempty,len=4,numeric"`
	ExpMonth  *int                    `json:"expMonth,omitempty" validate:"omitempty,min=1,max=12"`
	ExpYear   *int                    `json:"expYear,omitempty" validate:"omitempty,min=2024"`
	IsDefault bool                    `json:"isDefault"`
}

// Service manages stored payment methods with one default per user.
type Service interface {
	Add(ctx context.Context, userID uuid.UUID, input AddInput) (*models.PaymentMethod, error)
	List(ctx context.Context, userID uuid.UUID) ([]models.PaymentMethod, error)
	SetDefault(ctx context.Context, userID, id uuid.UUID) (*models.PaymentMethod, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type service struct {
	repo Repository
	tx   txRunner
	now  func() time.Time
}

// NewService wires the payment method service.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("payment method repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	return &service{repo: repo, tx: tx, now: time.Now}, nil
}

func (s *service) Add(ctx context.Context, userID uuid.UUID, input AddInput) (*models.PaymentMethod, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if !input.Kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method kind")
	}
	if input.Kind == enums.PaymentMethodKindCard {
		if input.Last4 == nil || len(strings.TrimSpace(*input.Last4)) != 4 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "card last4 required")
		}
		if input.ExpMonth == nil || input.ExpYear == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "card expiry required")
		}
		if expired(*input.ExpMonth, *input.ExpYear, s.now()) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "card is expired")
		}
	}

	existing, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "list payment methods")
	}
	isDefault := input.IsDefault || len(existing) == 0

	method := &models.PaymentMethod{
		UserID:    userID,
		Kind:      input.Kind,
		Brand:     input.Brand,
		Last4:     input.Last4,
		ExpMonth:  input.ExpMonth,
		ExpYear:   input.ExpYear,
		IsDefault: isDefault,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if isDefault && len(existing) > 0 {
			if err := repo.ClearDefault(ctx, userID); err != nil {
				return err
			}
		}
		return repo.Create(ctx, method)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "create payment method")
	}
	return method, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]models.PaymentMethod, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	methods, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "list payment methods")
	}
	return methods, nil
}

func (s *service) SetDefault(ctx context.Context, userID, id uuid.UUID) (*models.PaymentMethod, error) {
	method, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if method.IsDefault {
		return method, nil
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.ClearDefault(ctx, userID); err != nil {
			return err
		}
		return repo.SetDefault(ctx, id)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "set default payment method")
	}

	method.IsDefault = true
	return method, nil
}

func (s *service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	method, err := s.owned(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, method.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "delete payment method")
	}
	return nil
}

func (s *service) owned(ctx context.Context, userID, id uuid.UUID) (*models.PaymentMethod, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment method id required")
	}
	method, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment method not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "load payment method")
	}
	if method.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment method not found")
	}
	return method, nil
}

func expired(month, year int, now time.Time) bool {
	if year < now.Year() {
		return true
	}
	return year == now.Year() && month < int(now.Month())
}
