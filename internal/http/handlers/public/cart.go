package public

import (
	"strconv"
	"strings"

	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CartItemRequest 购物车项请求
type CartItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

// CheckoutCartRequest 整车下单请求
type CheckoutCartRequest struct {
	CouponCode      string `json:"coupon_code"`
	ShippingAddress string `json:"shipping_address"`
	Notes           string `json:"notes"`
}

// GetCart 获取购物车
func (h *Handler) GetCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	cart, err := h.CartService.GetCart(uid)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "获取购物车失败")
		return
	}

	response.Success(c, cart)
}

// UpsertCartItem 添加/更新购物车项；数量为负时按删除处理
func (h *Handler) UpsertCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}

	if req.Quantity <= 0 {
		if err := h.CartService.RemoveItem(uid, req.ProductID); err != nil {
			respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "更新购物车失败")
			return
		}
		response.Success(c, gin.H{"updated": true})
		return
	}

	if err := h.CartService.UpsertItem(service.UpsertCartItemInput{
		UserID:    uid,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	}); err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "更新购物车失败")
		return
	}

	response.Success(c, gin.H{"updated": true})
}

// DeleteCartItem 删除购物车项
func (h *Handler) DeleteCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	productID, err := strconv.Atoi(c.Param("product_id"))
	if err != nil || productID <= 0 {
		respondError(c, response.CodeBadRequest, "商品ID无效", nil)
		return
	}

	if err := h.CartService.RemoveItem(uid, uint(productID)); err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "删除购物车项失败")
		return
	}

	response.Success(c, gin.H{"deleted": true})
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	if err := h.CartService.ClearCart(uid); err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "清空购物车失败")
		return
	}

	response.Success(c, gin.H{"cleared": true})
}

// CheckoutCart 将购物车整车下单
func (h *Handler) CheckoutCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	var req CheckoutCartRequest
	_ = c.ShouldBindJSON(&req)

	order, err := h.CartService.Checkout(uid, req.ShippingAddress, req.Notes)
	if err != nil {
		respondWithMappedError(c, err, cartCheckoutErrorRules, response.CodeInternal, "购物车下单失败")
		return
	}

	// 下单时附带优惠码：订单已创建成功，优惠失败单独返回
	if code := strings.TrimSpace(req.CouponCode); code != "" {
		applied, err := h.CouponService.ApplyCoupon(order.ID, uid, code)
		if err != nil {
			response.ErrorWithData(c, response.CodeBadRequest, err.Error(), gin.H{"order": order})
			return
		}
		order = applied
	}

	response.Success(c, order)
}
