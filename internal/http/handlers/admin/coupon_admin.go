package admin

import (
	"strconv"
	"strings"
	"time"

	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/repository"
	"github.com/storefront-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CouponRequest 优惠券创建/更新请求
type CouponRequest struct {
	Code           string       `json:"code" binding:"required"`
	Type           string       `json:"type" binding:"required"`
	Value          models.Money `json:"value"`
	MinOrderAmount models.Money `json:"min_order_amount"`
	MaxDiscount    models.Money `json:"max_discount"`
	UsageLimit     int          `json:"usage_limit"`
	PerUserLimit   int          `json:"per_user_limit"`
	ValidFrom      *time.Time   `json:"valid_from"`
	ValidUntil     *time.Time   `json:"valid_until"`
	Status         string       `json:"status"`
}

func (r CouponRequest) toInput() service.CouponInput {
	return service.CouponInput{
		Code:           r.Code,
		Type:           r.Type,
		Value:          r.Value,
		MinOrderAmount: r.MinOrderAmount,
		MaxDiscount:    r.MaxDiscount,
		UsageLimit:     r.UsageLimit,
		PerUserLimit:   r.PerUserLimit,
		ValidFrom:      r.ValidFrom,
		ValidUntil:     r.ValidUntil,
		Status:         r.Status,
	}
}

// GetAdminCoupons 获取优惠券列表
func (h *Handler) GetAdminCoupons(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	coupons, total, err := h.CouponAdminService.ListCoupons(repository.CouponListFilter{
		Page:     page,
		PageSize: pageSize,
		Code:     strings.TrimSpace(c.Query("code")),
		Status:   strings.TrimSpace(c.Query("status")),
		Type:     strings.TrimSpace(c.Query("type")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "获取优惠券列表失败", err)
		return
	}

	pagination := response.BuildPagination(page, pageSize, total)
	response.SuccessWithPage(c, coupons, pagination)
}

// GetAdminCoupon 获取优惠券详情
func (h *Handler) GetAdminCoupon(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		respondError(c, response.CodeBadRequest, "优惠券ID无效", nil)
		return
	}

	coupon, err := h.CouponAdminService.GetCoupon(uint(id))
	if err != nil {
		respondWithMappedError(c, err, couponAdminErrorRules, response.CodeInternal, "获取优惠券失败")
		return
	}

	response.Success(c, coupon)
}

// CreateCoupon 创建优惠券
func (h *Handler) CreateCoupon(c *gin.Context) {
	var req CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}

	coupon, err := h.CouponAdminService.CreateCoupon(req.toInput())
	if err != nil {
		respondWithMappedError(c, err, couponAdminErrorRules, response.CodeInternal, "创建优惠券失败")
		return
	}

	response.Success(c, coupon)
}

// UpdateCoupon 更新优惠券
func (h *Handler) UpdateCoupon(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		respondError(c, response.CodeBadRequest, "优惠券ID无效", nil)
		return
	}

	var req CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}

	coupon, err := h.CouponAdminService.UpdateCoupon(uint(id), req.toInput())
	if err != nil {
		respondWithMappedError(c, err, couponAdminErrorRules, response.CodeInternal, "更新优惠券失败")
		return
	}

	response.Success(c, coupon)
}

// DeleteCoupon 删除优惠券
func (h *Handler) DeleteCoupon(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		respondError(c, response.CodeBadRequest, "优惠券ID无效", nil)
		return
	}

	if err := h.CouponAdminService.DeleteCoupon(uint(id)); err != nil {
		respondWithMappedError(c, err, couponAdminErrorRules, response.CodeInternal, "删除优惠券失败")
		return
	}

	response.Success(c, nil)
}
