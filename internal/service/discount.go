package service

import (
	"strings"

	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/models"

	"github.com/shopspring/decimal"
)

// DiscountResult 折扣计算结果
type DiscountResult struct {
	Discount     models.Money
	FreeShipping bool
}

// CalculateDiscount 根据优惠券规则计算折扣金额
// 纯计算，不读写任何状态；未识别的类型按零折扣处理。
func CalculateDiscount(coupon *models.Coupon, base models.Money) DiscountResult {
	if coupon == nil || base.Decimal.LessThanOrEqual(decimal.Zero) {
		return DiscountResult{Discount: models.NewMoneyFromInt(0)}
	}

	var discount decimal.Decimal
	freeShipping := false

	switch strings.ToLower(strings.TrimSpace(coupon.Type)) {
	case constants.CouponTypePercentage:
		discount = base.Decimal.Mul(coupon.Value.Decimal).Div(decimal.NewFromInt(100))
		if coupon.MaxDiscount.Decimal.GreaterThan(decimal.Zero) && discount.GreaterThan(coupon.MaxDiscount.Decimal) {
			discount = coupon.MaxDiscount.Decimal
		}
	case constants.CouponTypeFixedAmount:
		discount = coupon.Value.Decimal
	case constants.CouponTypeFreeShipping:
		discount = decimal.Zero
		freeShipping = true
	default:
		discount = decimal.Zero
	}

	if discount.LessThan(decimal.Zero) {
		discount = decimal.Zero
	}
	// 折扣不得超过被抵扣的金额本身
	if discount.GreaterThan(base.Decimal) {
		discount = base.Decimal
	}

	return DiscountResult{
		Discount:     models.NewMoneyFromDecimal(discount),
		FreeShipping: freeShipping,
	}
}
