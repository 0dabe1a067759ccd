package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/aminzare2005/vlonefarsi/pkg/enums"
)

// DiscountCode is a promotional code. Codes are matched case-sensitively and
// are immutable during a checkout; consumption is tracked in DiscountUsage.
type DiscountCode struct {
	ID                uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code              string             `gorm:"column:code;not null;uniqueIndex"`
	Type              enums.DiscountType `gorm:"column:type;type:text;not null"`
	Value             int64              `gorm:"column:value;not null"`
	MinOrderAmount    *int64             `gorm:"column:min_order_amount"`
	MaxDiscountAmount *int64             `gorm:"column:max_discount_amount"`
	UsageLimit        *int               `gorm:"column:usage_limit"`
	UsagePerUser      *int               `gorm:"column:usage_per_user"`
	StartsAt          *time.Time         `gorm:"column:starts_at"`
	ExpiresAt         *time.Time         `gorm:"column:expires_at"`
	IsActive          bool               `gorm:"column:is_active;not null;default:true"`
	CreatedAt         time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
