package admin

import (
	"strconv"
	"strings"

	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// GetAdminPayments 获取支付单列表
func (h *Handler) GetAdminPayments(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	orderID, _ := strconv.Atoi(c.Query("order_id"))

	payments, total, err := h.PaymentService.ListPayments(repository.PaymentListFilter{
		Page:     page,
		PageSize: pageSize,
		OrderID:  uint(orderID),
		Provider: strings.TrimSpace(c.Query("provider")),
		Status:   strings.TrimSpace(c.Query("status")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "获取支付列表失败", err)
		return
	}

	pagination := response.BuildPagination(page, pageSize, total)
	response.SuccessWithPage(c, payments, pagination)
}

// GetAdminPayment 获取支付单详情
func (h *Handler) GetAdminPayment(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		respondError(c, response.CodeBadRequest, "支付单ID无效", nil)
		return
	}

	payment, err := h.PaymentService.GetPayment(uint(id))
	if err != nil {
		respondWithMappedError(c, err, refundErrorRules, response.CodeInternal, "获取支付单失败")
		return
	}

	response.Success(c, payment)
}

// AdminRefundPayment 支付单退款（回补库存）
func (h *Handler) AdminRefundPayment(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		respondError(c, response.CodeBadRequest, "支付单ID无效", nil)
		return
	}

	var req RefundRequest
	_ = c.ShouldBindJSON(&req)

	payment, err := h.PaymentService.RefundPayment(uint(id), req.Reason, adminID)
	if err != nil {
		respondWithMappedError(c, err, refundErrorRules, response.CodeInternal, "支付退款失败")
		return
	}

	response.Success(c, payment)
}
