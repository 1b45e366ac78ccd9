package models

import (
	"time"

	"gorm.io/gorm"
)

// Post 内容页面表（关于我们、FAQ 等）
type Post struct {
	ID        uint           `gorm:"primarykey" json:"id"`                         // 主键
	Slug      string         `gorm:"uniqueIndex;not null" json:"slug"`             // 唯一标识
	Title     string         `gorm:"not null" json:"title"`                        // 标题
	Content   string         `gorm:"type:text" json:"content"`                     // 正文（Markdown）
	Status    string         `gorm:"not null;default:'draft';index" json:"status"` // 状态（draft/published）
	SortOrder int            `gorm:"default:0;index" json:"sort_order"`            // 排序权重
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName 指定表名
func (Post) TableName() string {
	return "posts"
}
