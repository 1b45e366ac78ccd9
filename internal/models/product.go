package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID          uint           `gorm:"primarykey" json:"id"`                              // 主键
	CategoryID  uint           `gorm:"not null;index" json:"category_id"`                 // 分类ID
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`                  // 唯一标识
	Name        string         `gorm:"not null" json:"name"`                              // 名称
	Description string         `gorm:"type:text" json:"description"`                      // 描述
	Price       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"` // 单价
	Images      StringArray    `gorm:"type:json" json:"images"`                           // 图片数组
	Tags        StringArray    `gorm:"type:json" json:"tags"`                             // 标签数组
	Stock       int            `gorm:"not null;default:0" json:"stock"`                   // 库存数量
	RatingSum   int            `gorm:"not null;default:0" json:"-"`                       // 评分累计
	RatingCount int            `gorm:"not null;default:0" json:"rating_count"`            // 评价数量
	IsActive    bool           `gorm:"default:true;index" json:"is_active"`               // 是否上架
	SortOrder   int            `gorm:"default:0;index" json:"sort_order"`                 // 排序权重
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// 关联
	Category Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// AverageRating 平均评分（无评价返回 0）
func (p *Product) AverageRating() float64 {
	if p == nil || p.RatingCount == 0 {
		return 0
	}
	return float64(p.RatingSum) / float64(p.RatingCount)
}
