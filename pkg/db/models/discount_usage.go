package models

import (
	"time"

	"github.com/google/uuid"
)

// DiscountUsage is the ledger entry consuming a discount code. Rows are
// written in the same transaction that creates the order; the unique index
// on (discount_id, order_id) makes replays harmless.
type DiscountUsage struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	DiscountID uuid.UUID `gorm:"column:discount_id;type:uuid;not null;uniqueIndex:idx_discount_usages_discount_order"`
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	OrderID    uuid.UUID `gorm:"column:order_id;type:uuid;not null;uniqueIndex:idx_discount_usages_discount_order"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
