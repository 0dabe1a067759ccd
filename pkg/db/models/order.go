package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/aminzare2005/vlonefarsi/pkg/enums"
)

// Order is the immutable record created from a cart snapshot at checkout.
// Only status, payment_status, payment_reference and track_post_id change
// after creation, and always through guarded updates.
type Order struct {
	ID                 uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID             uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	Status             enums.OrderStatus   `gorm:"column:status;type:text;not null;default:'pending'"`
	PaymentStatus      enums.PaymentStatus `gorm:"column:payment_status;type:text;not null;default:'pending'"`
	TotalAmount        int64               `gorm:"column:total_amount;not null"`
	DiscountID         *uuid.UUID          `gorm:"column:discount_id;type:uuid"`
	DiscountAmount     int64               `gorm:"column:discount_amount;not null;default:0"`
	FreeShipping       bool                `gorm:"column:free_shipping;not null;default:false"`
	ReceiverName       string              `gorm:"column:receiver_name;not null"`
	PhoneNumber        string              `gorm:"column:phone_number;not null"`
	ShippingAddress    string              `gorm:"column:shipping_address;not null"`
	ShippingCity       string              `gorm:"column:shipping_city;not null"`
	ShippingPostalCode string              `gorm:"column:shipping_postal_code;not null"`
	Telegram           *string             `gorm:"column:telegram"`
	PaymentReference   *string             `gorm:"column:payment_reference"`
	TrackID            string              `gorm:"column:track_id;not null;uniqueIndex"`
	TrackPostID        *string             `gorm:"column:track_post_id"`
	Items              []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt          time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
