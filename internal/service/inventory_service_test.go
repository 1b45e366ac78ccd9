package service

import (
	"errors"
	"testing"

	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/repository"

	"gorm.io/gorm"
)

func newTestInventoryService(db *gorm.DB) *InventoryService {
	return NewInventoryService(
		repository.NewProductRepository(db),
		repository.NewInventoryMovementRepository(db),
	)
}

func TestAdjustStockIncrement(t *testing.T) {
	db := newServiceTestDB(t, "inventory_increment")
	svc := newTestInventoryService(db)
	product := createTestProduct(t, db, "widget", 5)

	var stockAfter int
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		after, err := svc.AdjustStock(tx, product.ID, 3, constants.StockReasonRefund, "SF100")
		if err != nil {
			return err
		}
		stockAfter = after
		return nil
	})
	if err != nil {
		t.Fatalf("adjust stock failed: %v", err)
	}
	if stockAfter != 8 {
		t.Fatalf("expected stock 8, got %d", stockAfter)
	}

	var movement models.InventoryMovement
	if err := db.Where("product_id = ?", product.ID).First(&movement).Error; err != nil {
		t.Fatalf("load movement failed: %v", err)
	}
	if movement.Quantity != 3 || movement.StockAfter != 8 {
		t.Fatalf("unexpected movement: %+v", movement)
	}
	if movement.Reason != constants.StockReasonRefund || movement.Reference != "SF100" {
		t.Fatalf("unexpected movement metadata: %+v", movement)
	}
}

func TestAdjustStockDecrementGuard(t *testing.T) {
	db := newServiceTestDB(t, "inventory_decrement_guard")
	svc := newTestInventoryService(db)
	product := createTestProduct(t, db, "widget", 2)

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		_, err := svc.AdjustStock(tx, product.ID, -3, constants.StockReasonSale, "SF101")
		return err
	})
	if !errors.Is(err, ErrStockInsufficient) {
		t.Fatalf("expected insufficient stock, got: %v", err)
	}

	var reloaded models.Product
	if err := db.First(&reloaded, product.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if reloaded.Stock != 2 {
		t.Fatalf("expected stock unchanged, got %d", reloaded.Stock)
	}
	var count int64
	if err := db.Model(&models.InventoryMovement{}).Count(&count).Error; err != nil {
		t.Fatalf("count movements failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no movements, got %d", count)
	}
}

func TestAdjustStockMissingProduct(t *testing.T) {
	db := newServiceTestDB(t, "inventory_missing_product")
	svc := newTestInventoryService(db)

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		_, err := svc.AdjustStock(tx, 9999, 1, constants.StockReasonRefund, "SF102")
		return err
	})
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected product not found, got: %v", err)
	}
}
