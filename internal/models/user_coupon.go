package models

import "time"

// UserCoupon 用户优惠券使用台账（每用户每券一行，按次数累加）
type UserCoupon struct {
	ID         uint      `gorm:"primarykey" json:"id"`                                    // 主键
	CouponID   uint      `gorm:"index:idx_user_coupon,unique;not null" json:"coupon_id"`  // 优惠券ID
	UserID     uint      `gorm:"index:idx_user_coupon,unique;not null" json:"user_id"`    // 用户ID
	UsedCount  int       `gorm:"not null;default:0" json:"used_count"`                    // 已使用次数
	LastUsedAt time.Time `json:"last_used_at"`                                            // 最近使用时间
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName 指定表名
func (UserCoupon) TableName() string {
	return "user_coupons"
}
