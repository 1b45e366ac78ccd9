package public

import (
	"strconv"
	"strings"

	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/repository"
	"github.com/storefront-next/internal/service"

	"github.com/gin-gonic/gin"
)

// OrderItemRequest 订单项请求
type OrderItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

// CreateOrderRequest 创建订单请求
type CreateOrderRequest struct {
	Items           []OrderItemRequest `json:"items" binding:"required"`
	CouponCode      string             `json:"coupon_code"`
	ShippingAddress string             `json:"shipping_address"`
	Notes           string             `json:"notes"`
}

// CancelOrderRequest 取消订单请求
type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

// CreateOrder 创建订单
func (h *Handler) CreateOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}

	var items []service.CreateOrderItemInput
	for _, item := range req.Items {
		items = append(items, service.CreateOrderItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	order, err := h.OrderService.CreateOrder(service.CreateOrderInput{
		UserID:       uid,
		Items:        items,
		ShippingAddr: req.ShippingAddress,
		Notes:        req.Notes,
	})
	if err != nil {
		respondWithMappedError(c, err, orderCreateErrorRules, response.CodeInternal, "创建订单失败")
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

// ListOrders 获取当前用户订单列表
func (h *Handler) ListOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	orders, total, err := h.OrderService.ListUserOrders(repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   uid,
		Status:   strings.TrimSpace(c.Query("status")),
		OrderNo:  strings.TrimSpace(c.Query("order_no")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "获取订单列表失败", err)
		return
	}

	pagination := response.BuildPagination(page, pageSize, total)
	response.SuccessWithPage(c, orders, pagination)
}

// GetOrder 获取当前用户订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil || orderID <= 0 {
		respondError(c, response.CodeBadRequest, "订单ID无效", nil)
		return
	}

	order, err := h.OrderService.GetUserOrder(uint(orderID), uid)
	if err != nil {
		respondWithMappedError(c, err, orderCancelErrorRules, response.CodeInternal, "获取订单失败")
		return
	}

	response.Success(c, order)
}

// CancelOrder 取消当前用户订单
func (h *Handler) CancelOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil || orderID <= 0 {
		respondError(c, response.CodeBadRequest, "订单ID无效", nil)
		return
	}

	var req CancelOrderRequest
	_ = c.ShouldBindJSON(&req)

	// 归属校验在前，避免跨用户操作
	if _, err := h.OrderService.GetUserOrder(uint(orderID), uid); err != nil {
		respondWithMappedError(c, err, orderCancelErrorRules, response.CodeInternal, "取消订单失败")
		return
	}

	order, err := h.OrderService.CancelOrder(uint(orderID), uid, req.Reason)
	if err != nil {
		respondWithMappedError(c, err, orderCancelErrorRules, response.CodeInternal, "取消订单失败")
		return
	}

	response.Success(c, order)
}
