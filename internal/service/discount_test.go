package service

import (
	"testing"

	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/models"

	"github.com/shopspring/decimal"
)

func moneyFromInt(v int64) models.Money {
	return models.NewMoneyFromInt(v)
}

func TestCalculateDiscountPercentageCapped(t *testing.T) {
	coupon := &models.Coupon{
		Type:        constants.CouponTypePercentage,
		Value:       moneyFromInt(10),
		MaxDiscount: moneyFromInt(50),
	}
	result := CalculateDiscount(coupon, moneyFromInt(1000))
	if !result.Discount.Decimal.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected discount 50, got %s", result.Discount.String())
	}
	if result.FreeShipping {
		t.Fatalf("expected no free shipping")
	}
}

func TestCalculateDiscountPercentageUncapped(t *testing.T) {
	coupon := &models.Coupon{
		Type:  constants.CouponTypePercentage,
		Value: moneyFromInt(10),
	}
	result := CalculateDiscount(coupon, moneyFromInt(1000))
	if !result.Discount.Decimal.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected discount 100, got %s", result.Discount.String())
	}
}

func TestCalculateDiscountFixedAmountClampedToBase(t *testing.T) {
	coupon := &models.Coupon{
		Type:  constants.CouponTypeFixedAmount,
		Value: moneyFromInt(100),
	}
	result := CalculateDiscount(coupon, moneyFromInt(40))
	if !result.Discount.Decimal.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("expected discount clamped to 40, got %s", result.Discount.String())
	}
}

func TestCalculateDiscountFixedAmountBelowBase(t *testing.T) {
	coupon := &models.Coupon{
		Type:  constants.CouponTypeFixedAmount,
		Value: moneyFromInt(30),
	}
	result := CalculateDiscount(coupon, moneyFromInt(40))
	if !result.Discount.Decimal.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("expected discount 30, got %s", result.Discount.String())
	}
}

func TestCalculateDiscountFreeShipping(t *testing.T) {
	coupon := &models.Coupon{
		Type:  constants.CouponTypeFreeShipping,
		Value: moneyFromInt(0),
	}
	result := CalculateDiscount(coupon, moneyFromInt(500))
	if !result.Discount.Decimal.IsZero() {
		t.Fatalf("expected zero discount, got %s", result.Discount.String())
	}
	if !result.FreeShipping {
		t.Fatalf("expected free shipping flag")
	}
}

func TestCalculateDiscountUnknownTypeIsZero(t *testing.T) {
	coupon := &models.Coupon{
		Type:  "buy_one_get_one",
		Value: moneyFromInt(10),
	}
	result := CalculateDiscount(coupon, moneyFromInt(500))
	if !result.Discount.Decimal.IsZero() {
		t.Fatalf("expected zero discount for unknown type, got %s", result.Discount.String())
	}
}

func TestCalculateDiscountZeroBase(t *testing.T) {
	coupon := &models.Coupon{
		Type:  constants.CouponTypePercentage,
		Value: moneyFromInt(10),
	}
	result := CalculateDiscount(coupon, moneyFromInt(0))
	if !result.Discount.Decimal.IsZero() {
		t.Fatalf("expected zero discount for zero base, got %s", result.Discount.String())
	}
}

func TestCalculateDiscountNeverExceedsBase(t *testing.T) {
	coupon := &models.Coupon{
		Type:        constants.CouponTypePercentage,
		Value:       moneyFromInt(150),
		MaxDiscount: moneyFromInt(0),
	}
	result := CalculateDiscount(coupon, moneyFromInt(200))
	if !result.Discount.Decimal.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("expected discount clamped to base 200, got %s", result.Discount.String())
	}
}
