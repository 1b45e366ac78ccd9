package public

import (
	"io"

	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CreatePaymentRequest 创建支付请求
type CreatePaymentRequest struct {
	OrderID  uint   `json:"order_id" binding:"required"`
	Provider string `json:"provider" binding:"required"`
	Phone    string `json:"phone"`
}

// CreatePayment 为待支付订单发起支付
func (h *Handler) CreatePayment(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}

	result, err := h.PaymentService.CreatePayment(service.CreatePaymentInput{
		Context:  c.Request.Context(),
		OrderID:  req.OrderID,
		UserID:   uid,
		Provider: req.Provider,
		Phone:    req.Phone,
	})
	if err != nil {
		respondWithMappedError(c, err, paymentCreateErrorRules, response.CodeInternal, "创建支付失败")
		return
	}

	response.Success(c, gin.H{
		"payment":     result.Payment,
		"interaction": result.Interaction,
		"pay_url":     result.PayURL,
		"message":     result.Message,
	})
}

// StripeWebhook Stripe 支付回调
func (h *Handler) StripeWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondError(c, response.CodeBadRequest, "读取回调内容失败", err)
		return
	}

	headers := map[string]string{
		"Stripe-Signature": c.GetHeader("Stripe-Signature"),
	}
	if err := h.PaymentService.HandleStripeWebhook(headers, body); err != nil {
		respondError(c, response.CodeBadRequest, "回调处理失败", err)
		return
	}

	response.Success(c, gin.H{"received": true})
}

// MpesaCallback M-Pesa STK 回调
func (h *Handler) MpesaCallback(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondError(c, response.CodeBadRequest, "读取回调内容失败", err)
		return
	}

	if err := h.PaymentService.HandleMpesaCallback(body); err != nil {
		respondError(c, response.CodeBadRequest, "回调处理失败", err)
		return
	}

	// Daraja 要求固定格式响应
	c.JSON(200, gin.H{"ResultCode": 0, "ResultDesc": "Accepted"})
}
