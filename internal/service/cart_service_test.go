package service

import (
	"errors"
	"testing"

	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newTestCartService(t *testing.T, db *gorm.DB) *CartService {
	t.Helper()
	return NewCartService(
		repository.NewCartRepository(db),
		repository.NewProductRepository(db),
		newTestOrderService(t, db, nil),
	)
}

func countCartItems(t *testing.T, db *gorm.DB, userID uint) int64 {
	t.Helper()
	var count int64
	if err := db.Model(&models.CartItem{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		t.Fatalf("count cart items failed: %v", err)
	}
	return count
}

func TestCartUpsertOverwritesQuantity(t *testing.T) {
	db := newServiceTestDB(t, "cart_upsert")
	svc := newTestCartService(t, db)
	product := createTestProduct(t, db, "widget", 10)

	if err := svc.UpsertItem(UpsertCartItemInput{UserID: 3, ProductID: product.ID, Quantity: 2}); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}
	// 重复加购是覆盖数量，不是累加
	if err := svc.UpsertItem(UpsertCartItemInput{UserID: 3, ProductID: product.ID, Quantity: 5}); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	cart, err := svc.GetCart(3)
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if len(cart.Items) != 1 {
		t.Fatalf("expected 1 cart line, got %d", len(cart.Items))
	}
	if cart.Items[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", cart.Items[0].Quantity)
	}
	if !cart.Items[0].LineTotal.Decimal.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("expected line total 500, got %s", cart.Items[0].LineTotal.String())
	}
	if !cart.Subtotal.Decimal.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("expected subtotal 500, got %s", cart.Subtotal.String())
	}
}

func TestCartUpsertValidations(t *testing.T) {
	db := newServiceTestDB(t, "cart_upsert_validations")
	svc := newTestCartService(t, db)
	active := createTestProduct(t, db, "widget", 3)
	inactive := createTestProduct(t, db, "retired", 3)
	if err := db.Model(&models.Product{}).Where("id = ?", inactive.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate product failed: %v", err)
	}

	if err := svc.UpsertItem(UpsertCartItemInput{UserID: 3, ProductID: active.ID, Quantity: 0}); !errors.Is(err, ErrCartItemInvalid) {
		t.Fatalf("expected invalid quantity rejected, got: %v", err)
	}
	if err := svc.UpsertItem(UpsertCartItemInput{UserID: 3, ProductID: active.ID + 999, Quantity: 1}); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected missing product rejected, got: %v", err)
	}
	if err := svc.UpsertItem(UpsertCartItemInput{UserID: 3, ProductID: inactive.ID, Quantity: 1}); !errors.Is(err, ErrProductInactive) {
		t.Fatalf("expected inactive product rejected, got: %v", err)
	}
	if err := svc.UpsertItem(UpsertCartItemInput{UserID: 3, ProductID: active.ID, Quantity: 4}); !errors.Is(err, ErrStockInsufficient) {
		t.Fatalf("expected oversell rejected, got: %v", err)
	}
	if got := countCartItems(t, db, 3); got != 0 {
		t.Fatalf("expected no cart rows after rejections, got %d", got)
	}
}

func TestCartGetPrunesInactiveProducts(t *testing.T) {
	db := newServiceTestDB(t, "cart_prune")
	svc := newTestCartService(t, db)
	keep := createTestProduct(t, db, "keep", 10)
	gone := createTestProduct(t, db, "gone", 10)

	if err := svc.UpsertItem(UpsertCartItemInput{UserID: 3, ProductID: keep.ID, Quantity: 1}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if err := svc.UpsertItem(UpsertCartItemInput{UserID: 3, ProductID: gone.ID, Quantity: 2}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	// 加购后下架
	if err := db.Model(&models.Product{}).Where("id = ?", gone.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate product failed: %v", err)
	}

	cart, err := svc.GetCart(3)
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if len(cart.Items) != 1 {
		t.Fatalf("expected 1 surviving line, got %d", len(cart.Items))
	}
	if cart.Items[0].ProductID != keep.ID {
		t.Fatalf("expected surviving line for active product, got %d", cart.Items[0].ProductID)
	}
	if got := countCartItems(t, db, 3); got != 1 {
		t.Fatalf("expected stale row pruned, got %d rows", got)
	}
}

func TestCartRemoveAndClear(t *testing.T) {
	db := newServiceTestDB(t, "cart_remove_clear")
	svc := newTestCartService(t, db)
	productA := createTestProduct(t, db, "item-a", 10)
	productB := createTestProduct(t, db, "item-b", 10)

	if err := svc.UpsertItem(UpsertCartItemInput{UserID: 3, ProductID: productA.ID, Quantity: 1}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if err := svc.UpsertItem(UpsertCartItemInput{UserID: 3, ProductID: productB.ID, Quantity: 1}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	if err := svc.RemoveItem(3, productA.ID); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if got := countCartItems(t, db, 3); got != 1 {
		t.Fatalf("expected 1 row after remove, got %d", got)
	}
	if err := svc.ClearCart(3); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if got := countCartItems(t, db, 3); got != 0 {
		t.Fatalf("expected empty cart after clear, got %d rows", got)
	}
}

func TestCartCheckoutCreatesOrderAndClearsCart(t *testing.T) {
	db := newServiceTestDB(t, "cart_checkout")
	svc := newTestCartService(t, db)
	productA := createTestProduct(t, db, "item-a", 10)
	productB := createTestProduct(t, db, "item-b", 10)

	if err := svc.UpsertItem(UpsertCartItemInput{UserID: 3, ProductID: productA.ID, Quantity: 2}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if err := svc.UpsertItem(UpsertCartItemInput{UserID: 3, ProductID: productB.ID, Quantity: 3}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	order, err := svc.Checkout(3, "内罗毕仓库自提点", "")
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if !order.Subtotal.Decimal.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("expected subtotal 500, got %s", order.Subtotal.String())
	}

	var itemCount int64
	if err := db.Model(&models.OrderItem{}).Where("order_id = ?", order.ID).Count(&itemCount).Error; err != nil {
		t.Fatalf("count order items failed: %v", err)
	}
	if itemCount != 2 {
		t.Fatalf("expected 2 order items, got %d", itemCount)
	}

	// 下单扣减库存，购物车随即清空
	var reloaded models.Product
	if err := db.First(&reloaded, productA.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if reloaded.Stock != 8 {
		t.Fatalf("expected stock 8 after checkout, got %d", reloaded.Stock)
	}
	if got := countCartItems(t, db, 3); got != 0 {
		t.Fatalf("expected cart cleared after checkout, got %d rows", got)
	}
}

func TestCartCheckoutEmptyRejected(t *testing.T) {
	db := newServiceTestDB(t, "cart_checkout_empty")
	svc := newTestCartService(t, db)

	_, err := svc.Checkout(3, "", "")
	if !errors.Is(err, ErrCartEmpty) {
		t.Fatalf("expected empty cart rejected, got: %v", err)
	}
}
