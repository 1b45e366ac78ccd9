package service

import (
	"strings"

	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/repository"

	"gorm.io/gorm"
)

// InventoryService 库存调整服务
type InventoryService struct {
	productRepo  repository.ProductRepository
	movementRepo repository.InventoryMovementRepository
}

// NewInventoryService 创建库存调整服务
func NewInventoryService(productRepo repository.ProductRepository, movementRepo repository.InventoryMovementRepository) *InventoryService {
	return &InventoryService{
		productRepo:  productRepo,
		movementRepo: movementRepo,
	}
}

// AdjustStock 原子调整库存并写入一条流水，必须在调用方事务内执行
// 扣减时由单条条件更新保证不超卖；返回调整后的库存数。
func (s *InventoryService) AdjustStock(tx *gorm.DB, productID uint, delta int, reason, reference string) (int, error) {
	if productID == 0 || delta == 0 {
		return 0, ErrProductNotFound
	}
	productRepo := s.productRepo.WithTx(tx)
	movementRepo := s.movementRepo.WithTx(tx)

	ok, err := productRepo.AdjustStock(productID, delta)
	if err != nil {
		return 0, err
	}
	if !ok {
		product, err := productRepo.GetByID(productID)
		if err != nil {
			return 0, err
		}
		if product == nil {
			return 0, ErrProductNotFound
		}
		return 0, ErrStockInsufficient
	}

	product, err := productRepo.GetByID(productID)
	if err != nil {
		return 0, err
	}
	if product == nil {
		return 0, ErrStockDataBroken
	}

	movement := &models.InventoryMovement{
		ProductID:  productID,
		Quantity:   delta,
		StockAfter: product.Stock,
		Reason:     strings.TrimSpace(reason),
		Reference:  strings.TrimSpace(reference),
	}
	if err := movementRepo.Create(movement); err != nil {
		return 0, err
	}
	return product.Stock, nil
}

// ListMovements 查询库存流水
func (s *InventoryService) ListMovements(filter repository.MovementListFilter) ([]models.InventoryMovement, int64, error) {
	return s.movementRepo.List(filter)
}
