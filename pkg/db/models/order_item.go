package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderItem is the write-once snapshot of a cart line at order creation.
// Name, price, brand and model are copied so catalog edits never alter
// placed orders.
type OrderItem struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID      uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID    uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	ProductName  string    `gorm:"column:product_name;not null"`
	ProductPrice int64     `gorm:"column:product_price;not null"`
	Quantity     int       `gorm:"column:quantity;not null"`
	PhoneCaseID  uuid.UUID `gorm:"column:phone_case_id;type:uuid;not null"`
	PhoneBrand   string    `gorm:"column:phone_brand;not null"`
	PhoneModel   string    `gorm:"column:phone_model;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}
