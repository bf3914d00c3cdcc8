package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/aeroparkhq/aeropark-backend/pkg/enums"
)

// PaymentMethod stores opaque card metadata per user. Charging happens in
// an external processor; only display fields live here.
type PaymentMethod struct {
	ID        uuid.UUID               `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID               `gorm:"column:user_id;type:uuid;not null;index"`
	Kind      enums.PaymentMethodKind `gorm:"column:kind;type:payment_method_kind;not null;default:'CARD'"`
	Brand     *string                 `gorm:"column:brand"`
	Last4     *string                 `gorm:"column:last4"`
	ExpMonth  *int                    `gorm:"column:exp_month"`
	ExpYear   *int                    `gorm:"column:exp_year"`
	IsDefault bool                    `gorm:"column:is_default;not null;default:false"`
	CreatedAt time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
