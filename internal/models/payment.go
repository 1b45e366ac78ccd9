package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment 支付记录
type Payment struct {
	ID          uint           `gorm:"primarykey" json:"id"`                          // 主键
	OrderID     uint           `gorm:"index;not null" json:"order_id"`                // 订单ID
	Provider    string         `gorm:"not null" json:"provider"`                      // 提供方（stripe/mpesa/manual）
	Method      string         `gorm:"not null" json:"method"`                        // 交互方式（redirect/stk_push）
	Amount      Money          `gorm:"type:decimal(20,2);not null" json:"amount"`     // 支付金额
	Currency    string         `gorm:"not null" json:"currency"`                      // 币种
	Status      string         `gorm:"index;not null" json:"status"`                  // 支付状态
	ProviderRef string         `gorm:"index" json:"provider_ref"`                     // 第三方流水号
	PayURL      string         `gorm:"type:text" json:"pay_url,omitempty"`            // 跳转链接
	Notes       string         `gorm:"type:text" json:"notes,omitempty"`              // 备注（退款原因等）
	PaidAt      *time.Time     `gorm:"index" json:"paid_at"`                          // 支付时间
	RefundedAt  *time.Time     `gorm:"index" json:"refunded_at"`                      // 退款时间
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// 关联
	Order *Order `gorm:"foreignKey:OrderID" json:"order,omitempty"`
}

// TableName 指定表名
func (Payment) TableName() string {
	return "payments"
}
