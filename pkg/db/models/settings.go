package models

import "time"

// Settings is the single-row shop configuration. PostPrice is the flat
// shipping fee added to every order unless a free-shipping code waives it.
type Settings struct {
	ID        int       `gorm:"column:id;primaryKey"`
	PostPrice int64     `gorm:"column:post_price;not null;default:0"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the singular-free legacy name used by the storefront.
func (Settings) TableName() string {
	return "settings"
}
