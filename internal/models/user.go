package models

import (
	"time"

	"gorm.io/gorm"
)

// User 用户表
type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`                             // 主键
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`                // 邮箱
	Name         string         `gorm:"type:varchar(100)" json:"name"`                    // 昵称
	PasswordHash string         `gorm:"type:varchar(200);not null" json:"-"`              // 密码哈希
	Role         string         `gorm:"not null;default:'user';index" json:"role"`        // 角色（user/admin）
	Status       string         `gorm:"not null;default:'active';index" json:"status"`    // 状态
	Phone        string         `gorm:"type:varchar(32)" json:"phone,omitempty"`          // 手机号（M-Pesa 支付使用）
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                          // 创建时间
	UpdatedAt    time.Time      `json:"updated_at"`                                       // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                   // 软删除时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// IsAdmin 判断是否管理员
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == "admin"
}
