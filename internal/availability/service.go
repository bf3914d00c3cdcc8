package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aeroparkhq/aeropark-backend/pkg/enums"
	pkgerrors "github.com/aeroparkhq/aeropark-backend/pkg/errors"
)

// SpotView projects one free spot.
type SpotView struct {
	ID       uuid.UUID      `json:"id"`
	Code     string         `json:"code"`
	SpotType enums.SpotType `json:"spotType"`
	Floor    int            `json:"floor"`
}

// Result is the availability answer for a range: the concrete free
// spots plus the capacity counts once unassigned pending bookings are
// taken into account. SpotType is nil when no filter was given.
type Result struct {
	SpotType  *enums.SpotType `json:"spotType,omitempty"`
	StartDate time.Time       `json:"startDate"`
	EndDate   time.Time       `json:"endDate"`
	Total     int64           `json:"total"`
	Available int64           `json:"available"`
	Spots     []SpotView      `json:"spots"`
}

// Service resolves availability questions.
type Service interface {
	Check(ctx context.Context, spotType *enums.SpotType, start, end time.Time) (Result, error)
}

type service struct {
	repo Repository
}

// NewService builds the availability service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("availability repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Check(ctx context.Context, spotType *enums.SpotType, start, end time.Time) (Result, error) {
	if spotType != nil && !spotType.IsValid() {
		return Result{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid spot type")
	}
	if err := ValidateRange(start, end); err != nil {
		return Result{}, err
	}

	spots, err := s.repo.FreeSpots(ctx, spotType, start, end)
	if err != nil {
		return Result{}, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "list free spots")
	}
	total, err := s.repo.CountActiveSpots(ctx, spotType)
	if err != nil {
		return Result{}, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "count spots")
	}
	blocking, err := s.repo.CountBlockingBookings(ctx, spotType, start, end)
	if err != nil {
		return Result{}, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "count blocking bookings")
	}

	free := total - blocking
	if free < 0 {
		free = 0
	}

	views := make([]SpotView, 0, len(spots))
	for _, spot := range spots {
		views = append(views, SpotView{
			ID:       spot.ID,
			Code:     spot.Code,
			SpotType: spot.SpotType,
			Floor:    spot.Floor,
		})
	}

	return Result{
		SpotType:  spotType,
		StartDate: start,
		EndDate:   end,
		Total:     total,
		Available: free,
		Spots:     views,
	}, nil
}

// ValidateRange enforces the shared rules for booking ranges.
func ValidateRange(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "start and end dates required")
	}
	if !start.Before(end) {
		return pkgerrors.New(pkgerrors.CodeValidation, "start date must be before end date")
	}
	return nil
}
