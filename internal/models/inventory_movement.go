package models

import "time"

// InventoryMovement 库存变动流水（只增不改，审计用）
type InventoryMovement struct {
	ID         uint      `gorm:"primarykey" json:"id"`               // 主键
	ProductID  uint      `gorm:"index;not null" json:"product_id"`   // 商品ID
	Quantity   int       `gorm:"not null" json:"quantity"`           // 变动数量（入库为正，出库为负）
	StockAfter int       `gorm:"not null" json:"stock_after"`        // 变动后库存
	Reason     string    `gorm:"index;not null" json:"reason"`       // 变动原因（sale/refund/restock/adjustment）
	Reference  string    `gorm:"index" json:"reference"`             // 关联单据（订单编号等）
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

// TableName 指定表名
func (InventoryMovement) TableName() string {
	return "inventory_movements"
}
