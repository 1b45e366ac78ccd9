package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表
type Order struct {
	ID            uint           `gorm:"primarykey" json:"id"`                                        // 主键
	OrderNo       string         `gorm:"uniqueIndex;not null" json:"order_no"`                        // 订单编号
	UserID        uint           `gorm:"index;not null" json:"user_id"`                               // 用户ID
	Status        string         `gorm:"index;not null" json:"status"`                                // 订单状态
	PaymentStatus string         `gorm:"index;not null" json:"payment_status"`                        // 支付状态
	Currency      string         `gorm:"not null" json:"currency"`                                    // 币种
	Subtotal      Money          `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`       // 商品小计
	Discount      Money          `gorm:"type:decimal(20,2);not null;default:0" json:"discount"`       // 优惠金额
	ShippingFee   Money          `gorm:"type:decimal(20,2);not null;default:0" json:"shipping_fee"`   // 运费
	Tax           Money          `gorm:"type:decimal(20,2);not null;default:0" json:"tax"`            // 税费
	Total         Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total"`          // 应付总额
	CouponID      *uint          `gorm:"index" json:"coupon_id,omitempty"`                            // 优惠券ID
	ShippingAddr  string         `gorm:"type:text" json:"shipping_address,omitempty"`                 // 收货地址
	Notes         string         `gorm:"type:text" json:"notes,omitempty"`                            // 备注
	ExpiresAt     *time.Time     `gorm:"index" json:"expires_at"`                                     // 支付过期时间
	PaidAt        *time.Time     `gorm:"index" json:"paid_at"`                                        // 支付时间
	CanceledAt    *time.Time     `gorm:"index" json:"canceled_at"`                                    // 取消时间
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// 关联
	Items  []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`  // 订单项
	Coupon *Coupon     `gorm:"foreignKey:CouponID" json:"coupon,omitempty"`
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
