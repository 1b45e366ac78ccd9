package models

import (
	"time"

	"gorm.io/gorm"
)

// Coupon 优惠券
type Coupon struct {
	ID             uint           `gorm:"primarykey" json:"id"`                                           // 主键
	Code           string         `gorm:"uniqueIndex;not null" json:"code"`                               // 优惠码（统一大写）
	Type           string         `gorm:"not null" json:"type"`                                           // 类型（percentage/fixed_amount/free_shipping）
	Value          Money          `gorm:"type:decimal(20,2);not null;default:0" json:"value"`             // 数值（百分比或固定金额）
	MinOrderAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"min_order_amount"` // 使用门槛（0 表示不限制）
	MaxDiscount    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"max_discount"`     // 最大优惠金额（0 表示不限制）
	UsageLimit     int            `gorm:"not null;default:0" json:"usage_limit"`                         // 总使用上限（0 表示不限制）
	UsedCount      int            `gorm:"not null;default:0" json:"used_count"`                          // 已使用次数
	PerUserLimit   int            `gorm:"not null;default:0" json:"per_user_limit"`                      // 每人使用上限（0 表示不限制）
	ValidFrom      *time.Time     `gorm:"index" json:"valid_from"`                                       // 生效时间
	ValidUntil     *time.Time     `gorm:"index" json:"valid_until"`                                      // 失效时间（空表示长期有效）
	Status         string         `gorm:"not null;default:'active';index" json:"status"`                 // 状态（active/inactive/expired）
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName 指定表名
func (Coupon) TableName() string {
	return "coupons"
}
