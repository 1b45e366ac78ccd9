package models

import (
	"time"

	"gorm.io/gorm"
)

// Category 商品分类表
type Category struct {
	ID          uint           `gorm:"primarykey" json:"id"`             // 主键
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"` // 唯一标识
	Name        string         `gorm:"not null" json:"name"`             // 名称
	Description string         `gorm:"type:text" json:"description"`     // 描述
	SortOrder   int            `gorm:"default:0;index" json:"sort_order"`
	IsActive    bool           `gorm:"default:true;index" json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName 指定表名
func (Category) TableName() string {
	return "categories"
}
