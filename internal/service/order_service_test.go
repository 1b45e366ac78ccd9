package service

import (
	"errors"
	"testing"
	"time"

	"github.com/storefront-next/internal/config"
	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newTestOrderService(t *testing.T, db *gorm.DB, checkout *config.CheckoutConfig) *OrderService {
	t.Helper()
	if checkout == nil {
		checkout = &config.CheckoutConfig{
			Currency:             "KES",
			PaymentExpireMinutes: 30,
		}
	}
	productRepo := repository.NewProductRepository(db)
	movementRepo := repository.NewInventoryMovementRepository(db)
	return NewOrderService(
		repository.NewOrderRepository(db),
		productRepo,
		NewInventoryService(productRepo, movementRepo),
		disabledQueueClient(t),
		checkout,
	)
}

func TestCreateOrderDecrementsStock(t *testing.T) {
	db := newServiceTestDB(t, "order_create")
	svc := newTestOrderService(t, db, nil)
	product := createTestProduct(t, db, "widget", 10)

	order, err := svc.CreateOrder(CreateOrderInput{
		UserID: 3,
		Items: []CreateOrderItemInput{
			{ProductID: product.ID, Quantity: 4},
		},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if order.Status != constants.OrderStatusPending || order.PaymentStatus != constants.PaymentStatusPending {
		t.Fatalf("unexpected initial statuses: %s / %s", order.Status, order.PaymentStatus)
	}
	if !order.Subtotal.Decimal.Equal(decimal.NewFromInt(400)) {
		t.Fatalf("expected subtotal 400, got %s", order.Subtotal.String())
	}
	if !order.Total.Decimal.Equal(decimal.NewFromInt(400)) {
		t.Fatalf("expected total 400, got %s", order.Total.String())
	}
	if order.ExpiresAt == nil {
		t.Fatalf("expected payment deadline recorded")
	}

	var reloaded models.Product
	if err := db.First(&reloaded, product.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if reloaded.Stock != 6 {
		t.Fatalf("expected stock 6, got %d", reloaded.Stock)
	}
	if got := countMovements(t, db, order.OrderNo, constants.StockReasonSale); got != 1 {
		t.Fatalf("expected 1 sale movement, got %d", got)
	}

	var items []models.OrderItem
	if err := db.Where("order_id = ?", order.ID).Find(&items).Error; err != nil {
		t.Fatalf("load items failed: %v", err)
	}
	if len(items) != 1 || items[0].Quantity != 4 {
		t.Fatalf("unexpected items: %+v", items)
	}
	if items[0].ProductName != "widget" {
		t.Fatalf("expected product name snapshot, got %q", items[0].ProductName)
	}
}

func TestCreateOrderInsufficientStockRollsBack(t *testing.T) {
	db := newServiceTestDB(t, "order_create_insufficient")
	svc := newTestOrderService(t, db, nil)
	productA := createTestProduct(t, db, "plenty", 10)
	productB := createTestProduct(t, db, "scarce", 1)

	_, err := svc.CreateOrder(CreateOrderInput{
		UserID: 3,
		Items: []CreateOrderItemInput{
			{ProductID: productA.ID, Quantity: 2},
			{ProductID: productB.ID, Quantity: 5},
		},
	})
	if !errors.Is(err, ErrStockInsufficient) {
		t.Fatalf("expected insufficient stock, got: %v", err)
	}

	var reloadedA models.Product
	if err := db.First(&reloadedA, productA.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if reloadedA.Stock != 10 {
		t.Fatalf("expected rollback to restore stock, got %d", reloadedA.Stock)
	}
	var orderCount int64
	if err := db.Model(&models.Order{}).Count(&orderCount).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if orderCount != 0 {
		t.Fatalf("expected no orders persisted, got %d", orderCount)
	}
}

func TestCreateOrderShippingAndTax(t *testing.T) {
	db := newServiceTestDB(t, "order_create_totals")
	svc := newTestOrderService(t, db, &config.CheckoutConfig{
		Currency:             "KES",
		ShippingFee:          "50",
		FreeShippingOver:     "1000",
		TaxRatePercent:       16,
		PaymentExpireMinutes: 30,
	})
	product := createTestProduct(t, db, "widget", 100)

	order, err := svc.CreateOrder(CreateOrderInput{
		UserID: 3,
		Items: []CreateOrderItemInput{
			{ProductID: product.ID, Quantity: 5},
		},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if !order.ShippingFee.Decimal.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected shipping 50, got %s", order.ShippingFee.String())
	}
	if !order.Tax.Decimal.Equal(decimal.NewFromInt(80)) {
		t.Fatalf("expected tax 80, got %s", order.Tax.String())
	}
	if !order.Total.Decimal.Equal(decimal.NewFromInt(630)) {
		t.Fatalf("expected total 630, got %s", order.Total.String())
	}

	// 达到免邮门槛
	big, err := svc.CreateOrder(CreateOrderInput{
		UserID: 3,
		Items: []CreateOrderItemInput{
			{ProductID: product.ID, Quantity: 10},
		},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if !big.ShippingFee.Decimal.IsZero() {
		t.Fatalf("expected free shipping over threshold, got %s", big.ShippingFee.String())
	}
}

func TestUpdateStatusAllowedTransitions(t *testing.T) {
	db := newServiceTestDB(t, "order_status_machine")
	svc := newTestOrderService(t, db, nil)
	order := createTestOrder(t, db, models.Order{
		UserID:        3,
		Status:        constants.OrderStatusProcessing,
		PaymentStatus: constants.PaymentStatusCompleted,
		Subtotal:      models.NewMoneyFromInt(100),
		Total:         models.NewMoneyFromInt(100),
	})

	updated, err := svc.UpdateStatus(order.ID, constants.OrderStatusShipped, 1)
	if err != nil {
		t.Fatalf("transition to shipped failed: %v", err)
	}
	if updated.Status != constants.OrderStatusShipped {
		t.Fatalf("expected shipped, got %s", updated.Status)
	}

	if _, err := svc.UpdateStatus(order.ID, constants.OrderStatusCompleted, 1); !errors.Is(err, ErrOrderStateInvalid) {
		t.Fatalf("expected shipped->completed to be rejected, got: %v", err)
	}

	if _, err := svc.UpdateStatus(order.ID, constants.OrderStatusDelivered, 1); err != nil {
		t.Fatalf("transition to delivered failed: %v", err)
	}
	if _, err := svc.UpdateStatus(order.ID, constants.OrderStatusCompleted, 1); err != nil {
		t.Fatalf("transition to completed failed: %v", err)
	}
}

func TestCancelOrderRestocksItems(t *testing.T) {
	db := newServiceTestDB(t, "order_cancel_restock")
	svc := newTestOrderService(t, db, nil)
	product := createTestProduct(t, db, "widget", 10)

	order, err := svc.CreateOrder(CreateOrderInput{
		UserID: 3,
		Items: []CreateOrderItemInput{
			{ProductID: product.ID, Quantity: 4},
		},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	canceled, err := svc.CancelOrder(order.ID, 3, "用户取消")
	if err != nil {
		t.Fatalf("cancel order failed: %v", err)
	}
	if canceled.Status != constants.OrderStatusCanceled {
		t.Fatalf("expected canceled, got %s", canceled.Status)
	}
	if canceled.CanceledAt == nil {
		t.Fatalf("expected canceled_at recorded")
	}

	var reloaded models.Product
	if err := db.First(&reloaded, product.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if reloaded.Stock != 10 {
		t.Fatalf("expected stock restored to 10, got %d", reloaded.Stock)
	}
	if got := countMovements(t, db, order.OrderNo, constants.StockReasonRestock); got != 1 {
		t.Fatalf("expected 1 restock movement, got %d", got)
	}

	// 重复取消是幂等的
	if _, err := svc.CancelOrder(order.ID, 3, ""); err != nil {
		t.Fatalf("repeat cancel failed: %v", err)
	}
	if got := countMovements(t, db, order.OrderNo, constants.StockReasonRestock); got != 1 {
		t.Fatalf("expected no duplicate restock, got %d", got)
	}
}

func TestCancelOrderPaidRejected(t *testing.T) {
	db := newServiceTestDB(t, "order_cancel_paid")
	svc := newTestOrderService(t, db, nil)
	order := createTestOrder(t, db, models.Order{
		UserID:        3,
		Status:        constants.OrderStatusProcessing,
		PaymentStatus: constants.PaymentStatusCompleted,
		Subtotal:      models.NewMoneyFromInt(100),
		Total:         models.NewMoneyFromInt(100),
	})

	_, err := svc.CancelOrder(order.ID, 3, "")
	if !errors.Is(err, ErrOrderStateInvalid) {
		t.Fatalf("expected paid order cancel to be rejected, got: %v", err)
	}
}

func TestCancelExpiredOnlyAfterDeadline(t *testing.T) {
	db := newServiceTestDB(t, "order_cancel_expired")
	svc := newTestOrderService(t, db, nil)
	product := createTestProduct(t, db, "widget", 10)

	future := time.Now().Add(time.Hour)
	fresh := createTestOrder(t, db, models.Order{
		UserID:    3,
		Subtotal:  models.NewMoneyFromInt(100),
		Total:     models.NewMoneyFromInt(100),
		ExpiresAt: &future,
	})
	if err := svc.CancelExpired(fresh.ID); !errors.Is(err, ErrOrderStateInvalid) {
		t.Fatalf("expected unexpired order to be skipped, got: %v", err)
	}

	past := time.Now().Add(-time.Hour)
	stale := createTestOrder(t, db, models.Order{
		UserID:    3,
		OrderNo:   "SFEXPIRED1",
		Subtotal:  models.NewMoneyFromInt(100),
		Total:     models.NewMoneyFromInt(100),
		ExpiresAt: &past,
	})
	createTestOrderItem(t, db, stale.ID, product.ID, 2)

	if err := svc.CancelExpired(stale.ID); err != nil {
		t.Fatalf("cancel expired failed: %v", err)
	}
	var reloaded models.Order
	if err := db.First(&reloaded, stale.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if reloaded.Status != constants.OrderStatusCanceled {
		t.Fatalf("expected canceled, got %s", reloaded.Status)
	}
	var product2 models.Product
	if err := db.First(&product2, product.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if product2.Stock != 12 {
		t.Fatalf("expected stock restored to 12, got %d", product2.Stock)
	}
}

func TestGetUserOrderHidesForeignOrders(t *testing.T) {
	db := newServiceTestDB(t, "order_get_foreign")
	svc := newTestOrderService(t, db, nil)
	order := createTestOrder(t, db, models.Order{
		UserID:   3,
		Subtotal: models.NewMoneyFromInt(100),
		Total:    models.NewMoneyFromInt(100),
	})

	if _, err := svc.GetUserOrder(order.ID, 3); err != nil {
		t.Fatalf("owner lookup failed: %v", err)
	}
	if _, err := svc.GetUserOrder(order.ID, 99); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected foreign order hidden, got: %v", err)
	}
}
