package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/queue"
	"github.com/storefront-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newServiceTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Coupon{},
		&models.UserCoupon{},
		&models.Payment{},
		&models.InventoryMovement{},
		&models.Review{},
		&models.Post{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	return db
}

func disabledQueueClient(t *testing.T) *queue.Client {
	t.Helper()
	client, err := queue.NewClient(nil)
	if err != nil {
		t.Fatalf("new queue client failed: %v", err)
	}
	return client
}

func newTestCouponService(t *testing.T, db *gorm.DB) *CouponService {
	t.Helper()
	return NewCouponService(
		repository.NewCouponRepository(db),
		repository.NewUserCouponRepository(db),
		repository.NewOrderRepository(db),
		disabledQueueClient(t),
	)
}

func createTestCoupon(t *testing.T, db *gorm.DB, coupon models.Coupon) *models.Coupon {
	t.Helper()
	if coupon.Code == "" {
		coupon.Code = "WELCOME10"
	}
	if coupon.Type == "" {
		coupon.Type = constants.CouponTypePercentage
	}
	if coupon.Status == "" {
		coupon.Status = constants.CouponStatusActive
	}
	if err := db.Create(&coupon).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}
	return &coupon
}

func createTestOrder(t *testing.T, db *gorm.DB, order models.Order) *models.Order {
	t.Helper()
	if order.OrderNo == "" {
		order.OrderNo = fmt.Sprintf("SF%d", time.Now().UnixNano())
	}
	if order.UserID == 0 {
		order.UserID = 1
	}
	if order.Status == "" {
		order.Status = constants.OrderStatusPending
	}
	if order.PaymentStatus == "" {
		order.PaymentStatus = constants.PaymentStatusPending
	}
	if order.Currency == "" {
		order.Currency = "KES"
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return &order
}

func TestValidateCouponNotFound(t *testing.T) {
	db := newServiceTestDB(t, "coupon_validate_not_found")
	svc := newTestCouponService(t, db)

	_, _, err := svc.ValidateCoupon("NOPE", 1, models.NewMoneyFromInt(100))
	if !errors.Is(err, ErrCouponNotFound) {
		t.Fatalf("expected coupon not found, got: %v", err)
	}
}

func TestValidateCouponInactive(t *testing.T) {
	db := newServiceTestDB(t, "coupon_validate_inactive")
	svc := newTestCouponService(t, db)
	createTestCoupon(t, db, models.Coupon{
		Code:   "PAUSED",
		Value:  models.NewMoneyFromInt(10),
		Status: constants.CouponStatusInactive,
	})

	_, _, err := svc.ValidateCoupon("paused", 1, models.NewMoneyFromInt(100))
	if !errors.Is(err, ErrCouponInactive) {
		t.Fatalf("expected coupon inactive, got: %v", err)
	}
}

func TestValidateCouponExpiredWindow(t *testing.T) {
	db := newServiceTestDB(t, "coupon_validate_expired")
	svc := newTestCouponService(t, db)
	past := time.Now().Add(-time.Hour)
	createTestCoupon(t, db, models.Coupon{
		Code:       "OLD",
		Value:      models.NewMoneyFromInt(10),
		ValidUntil: &past,
	})

	_, _, err := svc.ValidateCoupon("OLD", 1, models.NewMoneyFromInt(100))
	if !errors.Is(err, ErrCouponExpired) {
		t.Fatalf("expected coupon expired, got: %v", err)
	}
}

func TestValidateCouponUsageLimitExhausted(t *testing.T) {
	db := newServiceTestDB(t, "coupon_validate_usage_limit")
	svc := newTestCouponService(t, db)
	createTestCoupon(t, db, models.Coupon{
		Code:       "ONEUSE",
		Value:      models.NewMoneyFromInt(10),
		UsageLimit: 1,
		UsedCount:  1,
	})

	_, _, err := svc.ValidateCoupon("ONEUSE", 1, models.NewMoneyFromInt(100))
	if !errors.Is(err, ErrCouponUsageLimit) {
		t.Fatalf("expected usage limit error, got: %v", err)
	}
}

func TestValidateCouponPerUserLimit(t *testing.T) {
	db := newServiceTestDB(t, "coupon_validate_per_user")
	svc := newTestCouponService(t, db)
	coupon := createTestCoupon(t, db, models.Coupon{
		Code:         "ONCEEACH",
		Value:        models.NewMoneyFromInt(10),
		PerUserLimit: 1,
	})
	if err := db.Create(&models.UserCoupon{CouponID: coupon.ID, UserID: 7, UsedCount: 1}).Error; err != nil {
		t.Fatalf("create user coupon failed: %v", err)
	}

	_, _, err := svc.ValidateCoupon("ONCEEACH", 7, models.NewMoneyFromInt(100))
	if !errors.Is(err, ErrCouponPerUserLimit) {
		t.Fatalf("expected per user limit error, got: %v", err)
	}

	// 其他用户不受影响
	if _, _, err := svc.ValidateCoupon("ONCEEACH", 8, models.NewMoneyFromInt(100)); err != nil {
		t.Fatalf("expected other user to pass, got: %v", err)
	}
}

func TestValidateCouponMinAmountInclusiveBoundary(t *testing.T) {
	db := newServiceTestDB(t, "coupon_validate_min_amount")
	svc := newTestCouponService(t, db)
	createTestCoupon(t, db, models.Coupon{
		Code:           "MIN100",
		Value:          models.NewMoneyFromInt(10),
		MinOrderAmount: models.NewMoneyFromInt(100),
	})

	if _, _, err := svc.ValidateCoupon("MIN100", 1, models.NewMoneyFromInt(100)); err != nil {
		t.Fatalf("expected exact-threshold amount to pass, got: %v", err)
	}
	_, _, err := svc.ValidateCoupon("MIN100", 1, models.NewMoneyFromInt(99))
	if !errors.Is(err, ErrCouponMinAmount) {
		t.Fatalf("expected min amount error, got: %v", err)
	}
}

func TestValidateCouponIsDryRun(t *testing.T) {
	db := newServiceTestDB(t, "coupon_validate_dry_run")
	svc := newTestCouponService(t, db)
	coupon := createTestCoupon(t, db, models.Coupon{
		Code:  "DRYRUN",
		Value: models.NewMoneyFromInt(10),
	})

	result, _, err := svc.ValidateCoupon("DRYRUN", 1, models.NewMoneyFromInt(200))
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !result.Discount.Decimal.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("expected discount 20, got %s", result.Discount.String())
	}

	var reloaded models.Coupon
	if err := db.First(&reloaded, coupon.ID).Error; err != nil {
		t.Fatalf("reload coupon failed: %v", err)
	}
	if reloaded.UsedCount != 0 {
		t.Fatalf("expected used count untouched, got %d", reloaded.UsedCount)
	}
	var ledgerCount int64
	if err := db.Model(&models.UserCoupon{}).Count(&ledgerCount).Error; err != nil {
		t.Fatalf("count user coupons failed: %v", err)
	}
	if ledgerCount != 0 {
		t.Fatalf("expected no user coupon rows, got %d", ledgerCount)
	}
}

func TestApplyCouponSuccess(t *testing.T) {
	db := newServiceTestDB(t, "coupon_apply_success")
	svc := newTestCouponService(t, db)
	coupon := createTestCoupon(t, db, models.Coupon{
		Code:       "SAVE10",
		Value:      models.NewMoneyFromInt(10),
		UsageLimit: 5,
	})
	order := createTestOrder(t, db, models.Order{
		UserID:      3,
		Subtotal:    models.NewMoneyFromInt(1000),
		ShippingFee: models.NewMoneyFromInt(50),
		Tax:         models.NewMoneyFromInt(160),
		Total:       models.NewMoneyFromInt(1210),
	})

	applied, err := svc.ApplyCoupon(order.ID, 3, "save10")
	if err != nil {
		t.Fatalf("apply coupon failed: %v", err)
	}
	if applied.CouponID == nil || *applied.CouponID != coupon.ID {
		t.Fatalf("expected coupon id recorded, got %+v", applied.CouponID)
	}
	if !applied.Discount.Decimal.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected discount 100, got %s", applied.Discount.String())
	}
	// total == subtotal - discount + shipping + tax
	expectedTotal := applied.Subtotal.Decimal.
		Sub(applied.Discount.Decimal).
		Add(applied.ShippingFee.Decimal).
		Add(applied.Tax.Decimal)
	if !applied.Total.Decimal.Equal(expectedTotal) {
		t.Fatalf("total invariant broken: total=%s expected=%s", applied.Total.String(), expectedTotal.String())
	}

	var reloaded models.Coupon
	if err := db.First(&reloaded, coupon.ID).Error; err != nil {
		t.Fatalf("reload coupon failed: %v", err)
	}
	if reloaded.UsedCount != 1 {
		t.Fatalf("expected used count 1, got %d", reloaded.UsedCount)
	}

	var ledger models.UserCoupon
	if err := db.Where("coupon_id = ? AND user_id = ?", coupon.ID, 3).First(&ledger).Error; err != nil {
		t.Fatalf("load user coupon failed: %v", err)
	}
	if ledger.UsedCount != 1 {
		t.Fatalf("expected ledger count 1, got %d", ledger.UsedCount)
	}
}

func TestApplyCouponFreeShippingZeroesShipping(t *testing.T) {
	db := newServiceTestDB(t, "coupon_apply_free_shipping")
	svc := newTestCouponService(t, db)
	createTestCoupon(t, db, models.Coupon{
		Code: "SHIPFREE",
		Type: constants.CouponTypeFreeShipping,
	})
	order := createTestOrder(t, db, models.Order{
		UserID:      3,
		Subtotal:    models.NewMoneyFromInt(500),
		ShippingFee: models.NewMoneyFromInt(80),
		Total:       models.NewMoneyFromInt(580),
	})

	applied, err := svc.ApplyCoupon(order.ID, 3, "SHIPFREE")
	if err != nil {
		t.Fatalf("apply coupon failed: %v", err)
	}
	if !applied.ShippingFee.Decimal.IsZero() {
		t.Fatalf("expected shipping fee zeroed, got %s", applied.ShippingFee.String())
	}
	if !applied.Total.Decimal.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("expected total 500, got %s", applied.Total.String())
	}
}

func TestApplyCouponNotOwnedOrder(t *testing.T) {
	db := newServiceTestDB(t, "coupon_apply_not_owned")
	svc := newTestCouponService(t, db)
	createTestCoupon(t, db, models.Coupon{Code: "SAVE10", Value: models.NewMoneyFromInt(10)})
	order := createTestOrder(t, db, models.Order{
		UserID:   3,
		Subtotal: models.NewMoneyFromInt(100),
		Total:    models.NewMoneyFromInt(100),
	})

	_, err := svc.ApplyCoupon(order.ID, 99, "SAVE10")
	if !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected order not found for foreign user, got: %v", err)
	}
}

func TestApplyCouponUsageLimitExhaustedNoMutation(t *testing.T) {
	db := newServiceTestDB(t, "coupon_apply_exhausted")
	svc := newTestCouponService(t, db)
	coupon := createTestCoupon(t, db, models.Coupon{
		Code:       "LAST1",
		Value:      models.NewMoneyFromInt(10),
		UsageLimit: 1,
		UsedCount:  1,
	})
	order := createTestOrder(t, db, models.Order{
		UserID:   3,
		Subtotal: models.NewMoneyFromInt(100),
		Total:    models.NewMoneyFromInt(100),
	})

	_, err := svc.ApplyCoupon(order.ID, 3, "LAST1")
	if !errors.Is(err, ErrCouponUsageLimit) {
		t.Fatalf("expected usage limit error, got: %v", err)
	}

	var reloadedOrder models.Order
	if err := db.First(&reloadedOrder, order.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if reloadedOrder.CouponID != nil {
		t.Fatalf("expected no coupon recorded on order")
	}
	if !reloadedOrder.Discount.Decimal.IsZero() {
		t.Fatalf("expected no discount, got %s", reloadedOrder.Discount.String())
	}
	var reloadedCoupon models.Coupon
	if err := db.First(&reloadedCoupon, coupon.ID).Error; err != nil {
		t.Fatalf("reload coupon failed: %v", err)
	}
	if reloadedCoupon.UsedCount != 1 {
		t.Fatalf("expected used count unchanged, got %d", reloadedCoupon.UsedCount)
	}
}

func TestApplyCouponPerUserLimitAcrossOrders(t *testing.T) {
	db := newServiceTestDB(t, "coupon_apply_per_user")
	svc := newTestCouponService(t, db)
	coupon := createTestCoupon(t, db, models.Coupon{
		Code:         "ONCEEACH",
		Value:        models.NewMoneyFromInt(10),
		PerUserLimit: 1,
	})
	first := createTestOrder(t, db, models.Order{
		UserID:   3,
		Subtotal: models.NewMoneyFromInt(100),
		Total:    models.NewMoneyFromInt(100),
	})
	second := createTestOrder(t, db, models.Order{
		UserID:   3,
		Subtotal: models.NewMoneyFromInt(200),
		Total:    models.NewMoneyFromInt(200),
	})

	if _, err := svc.ApplyCoupon(first.ID, 3, "ONCEEACH"); err != nil {
		t.Fatalf("first apply failed: %v", err)
	}
	_, err := svc.ApplyCoupon(second.ID, 3, "ONCEEACH")
	if !errors.Is(err, ErrCouponPerUserLimit) {
		t.Fatalf("expected per user limit error, got: %v", err)
	}

	var ledger models.UserCoupon
	if err := db.Where("coupon_id = ? AND user_id = ?", coupon.ID, 3).First(&ledger).Error; err != nil {
		t.Fatalf("load user coupon failed: %v", err)
	}
	if ledger.UsedCount != 1 {
		t.Fatalf("expected ledger count to stay 1, got %d", ledger.UsedCount)
	}
	var reloadedSecond models.Order
	if err := db.First(&reloadedSecond, second.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if reloadedSecond.CouponID != nil {
		t.Fatalf("expected no coupon recorded on second order")
	}
}

func TestApplyCouponOrderAlreadyCouponed(t *testing.T) {
	db := newServiceTestDB(t, "coupon_apply_already_couponed")
	svc := newTestCouponService(t, db)
	first := createTestCoupon(t, db, models.Coupon{Code: "SAVE10", Value: models.NewMoneyFromInt(10)})
	second := createTestCoupon(t, db, models.Coupon{Code: "EXTRA5", Value: models.NewMoneyFromInt(5)})
	order := createTestOrder(t, db, models.Order{
		UserID:   3,
		Subtotal: models.NewMoneyFromInt(100),
		Total:    models.NewMoneyFromInt(100),
	})

	if _, err := svc.ApplyCoupon(order.ID, 3, "SAVE10"); err != nil {
		t.Fatalf("first apply failed: %v", err)
	}
	_, err := svc.ApplyCoupon(order.ID, 3, "EXTRA5")
	if !errors.Is(err, ErrCouponAlreadyApplied) {
		t.Fatalf("expected already applied error, got: %v", err)
	}

	var reloadedOrder models.Order
	if err := db.First(&reloadedOrder, order.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if reloadedOrder.CouponID == nil || *reloadedOrder.CouponID != first.ID {
		t.Fatalf("expected first coupon to remain on order, got %+v", reloadedOrder.CouponID)
	}
	var reloadedSecond models.Coupon
	if err := db.First(&reloadedSecond, second.ID).Error; err != nil {
		t.Fatalf("reload coupon failed: %v", err)
	}
	if reloadedSecond.UsedCount != 0 {
		t.Fatalf("expected second coupon untouched, got used count %d", reloadedSecond.UsedCount)
	}
	var secondLedger int64
	if err := db.Model(&models.UserCoupon{}).Where("coupon_id = ?", second.ID).Count(&secondLedger).Error; err != nil {
		t.Fatalf("count user coupons failed: %v", err)
	}
	if secondLedger != 0 {
		t.Fatalf("expected no ledger rows for second coupon, got %d", secondLedger)
	}
}

func TestApplyCouponPaidOrderRejected(t *testing.T) {
	db := newServiceTestDB(t, "coupon_apply_paid_order")
	svc := newTestCouponService(t, db)
	createTestCoupon(t, db, models.Coupon{Code: "SAVE10", Value: models.NewMoneyFromInt(10)})
	order := createTestOrder(t, db, models.Order{
		UserID:        3,
		Status:        constants.OrderStatusProcessing,
		PaymentStatus: constants.PaymentStatusCompleted,
		Subtotal:      models.NewMoneyFromInt(100),
		Total:         models.NewMoneyFromInt(100),
	})

	_, err := svc.ApplyCoupon(order.ID, 3, "SAVE10")
	if !errors.Is(err, ErrOrderStateInvalid) {
		t.Fatalf("expected order state invalid, got: %v", err)
	}
}
