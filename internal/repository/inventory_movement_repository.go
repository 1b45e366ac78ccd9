package repository

import (
	"github.com/storefront-next/internal/models"

	"gorm.io/gorm"
)

// InventoryMovementRepository 库存流水数据访问接口（只增不改）
type InventoryMovementRepository interface {
	Create(movement *models.InventoryMovement) error
	List(filter MovementListFilter) ([]models.InventoryMovement, int64, error)
	CountByReference(reference, reason string) (int64, error)
	WithTx(tx *gorm.DB) *GormInventoryMovementRepository
}

// GormInventoryMovementRepository GORM 实现
type GormInventoryMovementRepository struct {
	db *gorm.DB
}

// NewInventoryMovementRepository 创建库存流水仓库
func NewInventoryMovementRepository(db *gorm.DB) *GormInventoryMovementRepository {
	return &GormInventoryMovementRepository{db: db}
}

// WithTx 绑定事务
func (r *GormInventoryMovementRepository) WithTx(tx *gorm.DB) *GormInventoryMovementRepository {
	if tx == nil {
		return r
	}
	return &GormInventoryMovementRepository{db: tx}
}

// Create 追加流水记录
func (r *GormInventoryMovementRepository) Create(movement *models.InventoryMovement) error {
	return r.db.Create(movement).Error
}

// List 获取流水列表
func (r *GormInventoryMovementRepository) List(filter MovementListFilter) ([]models.InventoryMovement, int64, error) {
	query := r.db.Model(&models.InventoryMovement{})
	if filter.ProductID > 0 {
		query = query.Where("product_id = ?", filter.ProductID)
	}
	if filter.Reason != "" {
		query = query.Where("reason = ?", filter.Reason)
	}
	if filter.Reference != "" {
		query = query.Where("reference = ?", filter.Reference)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var movements []models.InventoryMovement
	if err := query.Order("id desc").Find(&movements).Error; err != nil {
		return nil, 0, err
	}
	return movements, total, nil
}

// CountByReference 统计某单据某原因的流水条数
func (r *GormInventoryMovementRepository) CountByReference(reference, reason string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.InventoryMovement{}).
		Where("reference = ? AND reason = ?", reference, reason).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
