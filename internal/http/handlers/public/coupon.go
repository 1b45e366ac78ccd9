package public

import (
	"strconv"

	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/models"

	"github.com/gin-gonic/gin"
)

// ValidateCouponRequest 优惠券试算请求
type ValidateCouponRequest struct {
	Code        string       `json:"code" binding:"required"`
	OrderAmount models.Money `json:"order_amount" binding:"required"`
}

// ApplyCouponRequest 优惠券应用请求
type ApplyCouponRequest struct {
	Code string `json:"code" binding:"required"`
}

// ValidateCoupon 优惠券试算（不产生写入）
func (h *Handler) ValidateCoupon(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	var req ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}

	result, coupon, err := h.CouponService.ValidateCoupon(req.Code, uid, req.OrderAmount)
	if err != nil {
		respondWithMappedError(c, err, couponCheckErrorRules, response.CodeInternal, "优惠券校验失败")
		return
	}

	response.Success(c, gin.H{
		"coupon":        coupon,
		"discount":      result.Discount,
		"free_shipping": result.FreeShipping,
	})
}

// ApplyCoupon 将优惠券应用到待支付订单
func (h *Handler) ApplyCoupon(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil || orderID <= 0 {
		respondError(c, response.CodeBadRequest, "订单ID无效", nil)
		return
	}

	var req ApplyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}

	order, err := h.CouponService.ApplyCoupon(uint(orderID), uid, req.Code)
	if err != nil {
		respondWithMappedError(c, err, couponApplyErrorRules, response.CodeInternal, "优惠券应用失败")
		return
	}

	response.Success(c, order)
}
