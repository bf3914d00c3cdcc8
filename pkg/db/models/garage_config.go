package models

import "time"

// GarageConfig is a key/value row of operator-tunable settings: daily
// rates per spot type, the optional daily price cap, and add-on prices.
type GarageConfig struct {
	Key       string    `gorm:"column:key;primaryKey"`
	Value     string    `gorm:"column:value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName overrides the default pluralization.
func (GarageConfig) TableName() string {
	return "garage_config"
}
