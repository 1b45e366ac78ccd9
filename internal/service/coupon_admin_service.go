package service

import (
	"strings"
	"time"

	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/repository"
)

// CouponAdminService 优惠券后台管理服务
type CouponAdminService struct {
	couponRepo repository.CouponRepository
}

// NewCouponAdminService 创建优惠券后台管理服务
func NewCouponAdminService(couponRepo repository.CouponRepository) *CouponAdminService {
	return &CouponAdminService{couponRepo: couponRepo}
}

// CouponInput 优惠券创建/更新入参
type CouponInput struct {
	Code           string
	Type           string
	Value          models.Money
	MinOrderAmount models.Money
	MaxDiscount    models.Money
	UsageLimit     int
	PerUserLimit   int
	ValidFrom      *time.Time
	ValidUntil     *time.Time
	Status         string
}

// GetCoupon 获取优惠券
func (s *CouponAdminService) GetCoupon(id uint) (*models.Coupon, error) {
	coupon, err := s.couponRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}
	return coupon, nil
}

// ListCoupons 分页查询优惠券
func (s *CouponAdminService) ListCoupons(filter repository.CouponListFilter) ([]models.Coupon, int64, error) {
	return s.couponRepo.List(filter)
}

// CreateCoupon 创建优惠券
func (s *CouponAdminService) CreateCoupon(input CouponInput) (*models.Coupon, error) {
	code := strings.ToUpper(strings.TrimSpace(input.Code))
	if code == "" {
		return nil, ErrCouponInvalid
	}
	if !isValidCouponType(input.Type) {
		return nil, ErrCouponInvalid
	}

	existing, err := s.couponRepo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrCouponCodeExists
	}

	coupon := &models.Coupon{
		Code:           code,
		Type:           strings.ToLower(strings.TrimSpace(input.Type)),
		Value:          input.Value,
		MinOrderAmount: input.MinOrderAmount,
		MaxDiscount:    input.MaxDiscount,
		UsageLimit:     input.UsageLimit,
		PerUserLimit:   input.PerUserLimit,
		ValidFrom:      input.ValidFrom,
		ValidUntil:     input.ValidUntil,
		Status:         normalizeCouponStatus(input.Status),
	}
	if err := s.couponRepo.Create(coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

// UpdateCoupon 更新优惠券，code 与类型校验规则与创建一致
func (s *CouponAdminService) UpdateCoupon(id uint, input CouponInput) (*models.Coupon, error) {
	coupon, err := s.couponRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}

	code := strings.ToUpper(strings.TrimSpace(input.Code))
	if code == "" {
		return nil, ErrCouponInvalid
	}
	if !isValidCouponType(input.Type) {
		return nil, ErrCouponInvalid
	}
	if code != coupon.Code {
		existing, err := s.couponRepo.GetByCode(code)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != coupon.ID {
			return nil, ErrCouponCodeExists
		}
	}

	coupon.Code = code
	coupon.Type = strings.ToLower(strings.TrimSpace(input.Type))
	coupon.Value = input.Value
	coupon.MinOrderAmount = input.MinOrderAmount
	coupon.MaxDiscount = input.MaxDiscount
	coupon.UsageLimit = input.UsageLimit
	coupon.PerUserLimit = input.PerUserLimit
	coupon.ValidFrom = input.ValidFrom
	coupon.ValidUntil = input.ValidUntil
	coupon.Status = normalizeCouponStatus(input.Status)

	if err := s.couponRepo.Update(coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

// DeleteCoupon 删除优惠券
func (s *CouponAdminService) DeleteCoupon(id uint) error {
	coupon, err := s.couponRepo.GetByID(id)
	if err != nil {
		return err
	}
	if coupon == nil {
		return ErrCouponNotFound
	}
	return s.couponRepo.Delete(id)
}

func isValidCouponType(t string) bool {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case constants.CouponTypePercentage, constants.CouponTypeFixedAmount, constants.CouponTypeFreeShipping:
		return true
	default:
		return false
	}
}

func normalizeCouponStatus(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case constants.CouponStatusInactive:
		return constants.CouponStatusInactive
	case constants.CouponStatusExpired:
		return constants.CouponStatusExpired
	default:
		return constants.CouponStatusActive
	}
}
