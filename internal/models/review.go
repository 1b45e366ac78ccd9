package models

import (
	"time"

	"gorm.io/gorm"
)

// Review 商品评价表
type Review struct {
	ID        uint           `gorm:"primarykey" json:"id"`                                      // 主键
	ProductID uint           `gorm:"index:idx_review_user_product,unique;not null" json:"product_id"` // 商品ID
	UserID    uint           `gorm:"index:idx_review_user_product,unique;not null" json:"user_id"`    // 用户ID
	OrderID   uint           `gorm:"index;not null" json:"order_id"`                            // 订单ID
	Rating    int            `gorm:"not null" json:"rating"`                                    // 评分（1-5）
	Content   string         `gorm:"type:text" json:"content"`                                  // 评价内容
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// 关联
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName 指定表名
func (Review) TableName() string {
	return "reviews"
}
