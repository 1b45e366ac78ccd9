package admin

import (
	"strconv"
	"strings"

	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// UpdateOrderStatusRequest 订单状态更新请求
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// RefundRequest 退款请求
type RefundRequest struct {
	Reason string `json:"reason"`
}

// AdminListOrders 获取订单列表
func (h *Handler) AdminListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	userID, _ := strconv.Atoi(c.Query("user_id"))

	orders, total, err := h.OrderService.ListOrdersForAdmin(repository.OrderListFilter{
		Page:          page,
		PageSize:      pageSize,
		UserID:        uint(userID),
		Status:        strings.TrimSpace(c.Query("status")),
		PaymentStatus: strings.TrimSpace(c.Query("payment_status")),
		OrderNo:       strings.TrimSpace(c.Query("order_no")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "获取订单列表失败", err)
		return
	}

	pagination := response.BuildPagination(page, pageSize, total)
	response.SuccessWithPage(c, orders, pagination)
}

// AdminGetOrder 获取订单详情
func (h *Handler) AdminGetOrder(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		respondError(c, response.CodeBadRequest, "订单ID无效", nil)
		return
	}

	order, err := h.OrderService.GetOrderForAdmin(uint(id))
	if err != nil {
		respondWithMappedError(c, err, orderStatusErrorRules, response.CodeInternal, "获取订单失败")
		return
	}

	response.Success(c, order)
}

// AdminUpdateOrderStatus 更新订单状态
func (h *Handler) AdminUpdateOrderStatus(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		respondError(c, response.CodeBadRequest, "订单ID无效", nil)
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}

	order, err := h.OrderService.UpdateStatus(uint(id), req.Status, adminID)
	if err != nil {
		respondWithMappedError(c, err, orderStatusErrorRules, response.CodeInternal, "更新订单状态失败")
		return
	}

	response.Success(c, order)
}

// AdminRefundOrder 订单退款（无支付单路径）
func (h *Handler) AdminRefundOrder(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		respondError(c, response.CodeBadRequest, "订单ID无效", nil)
		return
	}

	var req RefundRequest
	_ = c.ShouldBindJSON(&req)

	order, err := h.PaymentService.RefundOrder(uint(id), req.Reason, adminID)
	if err != nil {
		respondWithMappedError(c, err, refundErrorRules, response.CodeInternal, "订单退款失败")
		return
	}

	response.Success(c, order)
}
