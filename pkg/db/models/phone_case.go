package models

import (
	"time"

	"github.com/google/uuid"
)

// PhoneCase is a purchasable variant (brand/model) carrying the live price.
// The price is snapshotted into order items at order creation; later edits
// never touch placed orders.
type PhoneCase struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Brand     string    `gorm:"column:brand;not null"`
	Model     string    `gorm:"column:model;not null"`
	Price     int64     `gorm:"column:price;not null"`
	Available bool      `gorm:"column:available;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
