package garage

import (
	"time"

	"github.com/aeroparkhq/aeropark-backend/pkg/enums"
)

// ConfigEntry is the projection of one configuration row.
type ConfigEntry struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateSpotInput captures a new spot definition.
type CreateSpotInput struct {
	Code     string         `json:"code" validate:"required"`
	SpotType enums.SpotType `json:"spotType" validate:"required"`
	Floor    int            `json:"floor"`
}

// UpdateSpotInput carries partial spot updates.
type UpdateSpotInput struct {
	SpotType *enums.SpotType `json:"spotType,omitempty"`
	Floor    *int            `json:"floor,omitempty"`
	Active   *bool           `json:"active,omitempty"`
}
