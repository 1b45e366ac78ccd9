package service

import (
	"strings"
	"time"

	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/queue"
	"github.com/storefront-next/internal/repository"

	"gorm.io/gorm"
)

// CouponService 优惠券服务
type CouponService struct {
	couponRepo     repository.CouponRepository
	userCouponRepo repository.UserCouponRepository
	orderRepo      repository.OrderRepository
	queueClient    *queue.Client
}

// NewCouponService 创建优惠券服务
func NewCouponService(
	couponRepo repository.CouponRepository,
	userCouponRepo repository.UserCouponRepository,
	orderRepo repository.OrderRepository,
	queueClient *queue.Client,
) *CouponService {
	return &CouponService{
		couponRepo:     couponRepo,
		userCouponRepo: userCouponRepo,
		orderRepo:      orderRepo,
		queueClient:    queueClient,
	}
}

// ValidateCoupon 校验优惠券并试算折扣，不产生任何写入
func (s *CouponService) ValidateCoupon(code string, userID uint, orderAmount models.Money) (DiscountResult, *models.Coupon, error) {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return DiscountResult{}, nil, ErrCouponInvalid
	}

	coupon, err := s.couponRepo.GetByCode(trimmed)
	if err != nil {
		return DiscountResult{}, nil, err
	}
	if coupon == nil {
		return DiscountResult{}, nil, ErrCouponNotFound
	}

	if err := s.checkCoupon(s.userCouponRepo, coupon, userID, orderAmount, time.Now()); err != nil {
		return DiscountResult{}, coupon, err
	}

	return CalculateDiscount(coupon, orderAmount), coupon, nil
}

// ApplyCoupon 将优惠券应用到订单：更新订单金额、累计全局用量、登记用户用量，三者同一事务
func (s *CouponService) ApplyCoupon(orderID uint, userID uint, code string) (*models.Order, error) {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return nil, ErrCouponInvalid
	}

	var applied *models.Order
	var appliedCouponID uint
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		couponRepo := s.couponRepo.WithTx(tx)
		userCouponRepo := s.userCouponRepo.WithTx(tx)

		order, err := orderRepo.GetByIDAndUser(orderID, userID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		if order.Status != constants.OrderStatusPending || order.PaymentStatus != constants.PaymentStatusPending {
			return ErrOrderStateInvalid
		}
		// 换券需先取消重下，避免旧券用量滞留在台账里
		if order.CouponID != nil {
			return ErrCouponAlreadyApplied
		}

		coupon, err := couponRepo.GetByCode(trimmed)
		if err != nil {
			return err
		}
		if coupon == nil {
			return ErrCouponNotFound
		}

		now := time.Now()
		// 事务内重新校验，避免校验与应用之间的状态漂移
		if err := s.checkCoupon(userCouponRepo, coupon, userID, order.Subtotal, now); err != nil {
			return err
		}

		result := CalculateDiscount(coupon, order.Subtotal)

		order.CouponID = &coupon.ID
		order.Discount = result.Discount
		if result.FreeShipping {
			order.ShippingFee = models.NewMoneyFromInt(0)
		}
		order.Total = models.NewMoneyFromDecimal(
			order.Subtotal.Decimal.
				Sub(order.Discount.Decimal).
				Add(order.ShippingFee.Decimal).
				Add(order.Tax.Decimal),
		)
		if err := orderRepo.Update(order); err != nil {
			return err
		}

		// 条件自增：超过全局上限时不会命中任何行
		ok, err := couponRepo.IncrementUsedCount(coupon.ID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrCouponUsageLimit
		}

		// 条件自增：并发下超过个人上限时不会命中任何行
		ok, err = userCouponRepo.IncrementUsage(coupon.ID, userID, coupon.PerUserLimit, now)
		if err != nil {
			return err
		}
		if !ok {
			return ErrCouponPerUserLimit
		}

		applied = order
		appliedCouponID = coupon.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 审计事件失败不影响业务结果
	if err := s.queueClient.EnqueueAuditEvent(queue.AuditEventPayload{
		Event:    constants.AuditEventCouponApplied,
		OrderID:  applied.ID,
		CouponID: appliedCouponID,
		ActorID:  userID,
	}); err != nil {
		logger.Warnw("coupon_apply_audit_enqueue_failed", "order_id", applied.ID, "error", err)
	}

	return applied, nil
}

// checkCoupon 按状态、有效期、全局与个人用量、门槛金额逐项校验
func (s *CouponService) checkCoupon(userCouponRepo repository.UserCouponRepository, coupon *models.Coupon, userID uint, orderAmount models.Money, now time.Time) error {
	if coupon.Status != constants.CouponStatusActive {
		if coupon.Status == constants.CouponStatusExpired {
			return ErrCouponExpired
		}
		return ErrCouponInactive
	}
	if coupon.ValidFrom != nil && now.Before(*coupon.ValidFrom) {
		return ErrCouponNotStarted
	}
	if coupon.ValidUntil != nil && now.After(*coupon.ValidUntil) {
		return ErrCouponExpired
	}
	if coupon.UsageLimit > 0 && coupon.UsedCount >= coupon.UsageLimit {
		return ErrCouponUsageLimit
	}
	if coupon.PerUserLimit > 0 && userID != 0 {
		count, err := userCouponRepo.CountByUser(coupon.ID, userID)
		if err != nil {
			return err
		}
		if count >= coupon.PerUserLimit {
			return ErrCouponPerUserLimit
		}
	}
	// 门槛为闭区间：订单金额恰好等于门槛时允许使用
	if coupon.MinOrderAmount.Decimal.GreaterThan(orderAmount.Decimal) {
		return ErrCouponMinAmount
	}
	return nil
}
