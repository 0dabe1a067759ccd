package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is one line in a user's cart: a product printed on a specific
// phone case. Quantity never drops below 1; removal deletes the row.
type CartItem struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	ProductID   uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	PhoneCaseID uuid.UUID `gorm:"column:phone_case_id;type:uuid;not null"`
	Quantity    int       `gorm:"column:quantity;not null;default:1"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Product   *Product   `gorm:"foreignKey:ProductID"`
	PhoneCase *PhoneCase `gorm:"foreignKey:PhoneCaseID"`
}
