package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/payment/mpesa"
	"github.com/storefront-next/internal/payment/stripe"
	"github.com/storefront-next/internal/queue"
	"github.com/storefront-next/internal/repository"

	"gorm.io/gorm"
)

// PaymentService 支付服务
type PaymentService struct {
	paymentRepo  repository.PaymentRepository
	orderRepo    repository.OrderRepository
	inventory    *InventoryService
	queueClient  *queue.Client
	stripeClient *stripe.Client
	mpesaClient  *mpesa.Client
}

// NewPaymentService 创建支付服务
func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	orderRepo repository.OrderRepository,
	inventory *InventoryService,
	queueClient *queue.Client,
	stripeClient *stripe.Client,
	mpesaClient *mpesa.Client,
) *PaymentService {
	return &PaymentService{
		paymentRepo:  paymentRepo,
		orderRepo:    orderRepo,
		inventory:    inventory,
		queueClient:  queueClient,
		stripeClient: stripeClient,
		mpesaClient:  mpesaClient,
	}
}

// CreatePaymentInput 创建支付入参
type CreatePaymentInput struct {
	Context  context.Context
	OrderID  uint
	UserID   uint
	Provider string
	Phone    string
}

// CreatePaymentResult 创建支付返回
type CreatePaymentResult struct {
	Payment     *models.Payment
	Interaction string
	PayURL      string
	Message     string
}

// CreatePayment 为待支付订单发起一笔支付
func (s *PaymentService) CreatePayment(input CreatePaymentInput) (*CreatePaymentResult, error) {
	if input.OrderID == 0 || input.UserID == 0 {
		return nil, ErrPaymentInvalid
	}
	order, err := s.orderRepo.GetByIDAndUser(input.OrderID, input.UserID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status != constants.OrderStatusPending || order.PaymentStatus != constants.PaymentStatusPending {
		return nil, ErrOrderStateInvalid
	}

	// 提供方校验在落库之前，不给不可达渠道留下悬挂的待支付单
	provider := strings.ToLower(strings.TrimSpace(input.Provider))
	switch provider {
	case constants.PaymentProviderStripe:
		if !s.stripeClient.Enabled() {
			return nil, ErrPaymentProviderNotSupported
		}
	case constants.PaymentProviderMpesa:
		if !s.mpesaClient.Enabled() {
			return nil, ErrPaymentProviderNotSupported
		}
	default:
		return nil, ErrPaymentProviderNotSupported
	}

	payment := &models.Payment{
		OrderID:  order.ID,
		Provider: provider,
		Amount:   order.Total,
		Currency: order.Currency,
		Status:   constants.PaymentStatusPending,
	}
	if err := s.paymentRepo.Create(payment); err != nil {
		return nil, err
	}

	switch provider {
	case constants.PaymentProviderStripe:
		return s.createStripePayment(input.Context, order, payment)
	case constants.PaymentProviderMpesa:
		return s.createMpesaPayment(input.Context, order, payment, input.Phone)
	default:
		return nil, ErrPaymentProviderNotSupported
	}
}

func (s *PaymentService) createStripePayment(ctx context.Context, order *models.Order, payment *models.Payment) (*CreatePaymentResult, error) {
	if !s.stripeClient.Enabled() {
		return nil, ErrPaymentProviderNotSupported
	}
	result, err := s.stripeClient.CreatePayment(ctx, stripe.CreateInput{
		OrderNo:     order.OrderNo,
		PaymentID:   payment.ID,
		Amount:      payment.Amount.String(),
		Currency:    payment.Currency,
		Description: order.OrderNo,
	})
	if err != nil {
		return nil, err
	}
	payment.Method = constants.PaymentInteractionRedirect
	payment.ProviderRef = result.SessionID
	payment.PayURL = result.URL
	if err := s.paymentRepo.Update(payment); err != nil {
		return nil, err
	}
	return &CreatePaymentResult{
		Payment:     payment,
		Interaction: constants.PaymentInteractionRedirect,
		PayURL:      result.URL,
	}, nil
}

func (s *PaymentService) createMpesaPayment(ctx context.Context, order *models.Order, payment *models.Payment, phone string) (*CreatePaymentResult, error) {
	if !s.mpesaClient.Enabled() {
		return nil, ErrPaymentProviderNotSupported
	}
	result, err := s.mpesaClient.STKPush(ctx, mpesa.STKPushInput{
		OrderNo:   order.OrderNo,
		PaymentID: payment.ID,
		Amount:    payment.Amount.String(),
		Phone:     phone,
	})
	if err != nil {
		return nil, err
	}
	payment.Method = constants.PaymentInteractionSTKPush
	payment.ProviderRef = result.CheckoutRequestID
	if err := s.paymentRepo.Update(payment); err != nil {
		return nil, err
	}
	return &CreatePaymentResult{
		Payment:     payment,
		Interaction: constants.PaymentInteractionSTKPush,
		Message:     result.CustomerMessage,
	}, nil
}

// HandleStripeWebhook 处理 Stripe webhook 回调
func (s *PaymentService) HandleStripeWebhook(headers map[string]string, body []byte) error {
	if s.stripeClient == nil {
		return ErrPaymentProviderNotSupported
	}
	result, err := s.stripeClient.VerifyAndParseWebhook(headers, body, time.Now())
	if err != nil {
		return err
	}

	payment, err := s.locatePayment(result.PaymentID, result.ProviderRef)
	if err != nil {
		return err
	}
	if payment == nil {
		logger.Warnw("stripe_webhook_payment_not_found", "event_id", result.EventID, "provider_ref", result.ProviderRef)
		return ErrPaymentNotFound
	}

	switch result.Status {
	case "success":
		paidAt := time.Now()
		if result.PaidAt != nil {
			paidAt = *result.PaidAt
		}
		return s.CompletePayment(payment.ID, paidAt)
	case "failed", "expired":
		return s.FailPayment(payment.ID, result.EventType)
	default:
		return nil
	}
}

// HandleMpesaCallback 处理 M-Pesa STK Push 异步回调
func (s *PaymentService) HandleMpesaCallback(body []byte) error {
	result, err := mpesa.ParseCallback(body)
	if err != nil {
		return err
	}
	payment, err := s.paymentRepo.GetByProviderRef(result.CheckoutRequestID)
	if err != nil {
		return err
	}
	if payment == nil {
		logger.Warnw("mpesa_callback_payment_not_found", "checkout_request_id", result.CheckoutRequestID)
		return ErrPaymentNotFound
	}
	if result.Success {
		return s.CompletePayment(payment.ID, time.Now())
	}
	return s.FailPayment(payment.ID, result.ResultDesc)
}

// CompletePayment 将支付标记为成功并推进订单，幂等
func (s *PaymentService) CompletePayment(paymentID uint, paidAt time.Time) error {
	return models.DB.Transaction(func(tx *gorm.DB) error {
		paymentRepo := s.paymentRepo.WithTx(tx)
		orderRepo := s.orderRepo.WithTx(tx)

		payment, err := paymentRepo.GetByIDForUpdate(paymentID)
		if err != nil {
			return err
		}
		if payment == nil {
			return ErrPaymentNotFound
		}
		if payment.Status == constants.PaymentStatusCompleted {
			return nil
		}
		if payment.Status != constants.PaymentStatusPending {
			return ErrPaymentStateInvalid
		}

		payment.Status = constants.PaymentStatusCompleted
		payment.PaidAt = &paidAt
		if err := paymentRepo.Update(payment); err != nil {
			return err
		}

		order, err := orderRepo.GetByIDForUpdate(payment.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		updates := map[string]interface{}{
			"payment_status": constants.PaymentStatusCompleted,
			"status":         constants.OrderStatusProcessing,
			"paid_at":        paidAt,
			"updated_at":     time.Now(),
		}
		return orderRepo.UpdateStatus(order.ID, updates)
	})
}

// FailPayment 将待支付的支付单标记为失败
func (s *PaymentService) FailPayment(paymentID uint, reason string) error {
	return models.DB.Transaction(func(tx *gorm.DB) error {
		paymentRepo := s.paymentRepo.WithTx(tx)
		payment, err := paymentRepo.GetByIDForUpdate(paymentID)
		if err != nil {
			return err
		}
		if payment == nil {
			return ErrPaymentNotFound
		}
		if payment.Status != constants.PaymentStatusPending {
			return nil
		}
		payment.Status = constants.PaymentStatusFailed
		payment.Notes = strings.TrimSpace(reason)
		return paymentRepo.Update(payment)
	})
}

// RefundPayment 退款：恢复库存、更新支付与订单状态，整体一个事务
// 对已退款支付单重复调用是无副作用的幂等操作。
func (s *PaymentService) RefundPayment(paymentID uint, reason string, actorID uint) (*models.Payment, error) {
	var refunded *models.Payment
	alreadyRefunded := false

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		paymentRepo := s.paymentRepo.WithTx(tx)
		orderRepo := s.orderRepo.WithTx(tx)

		payment, err := paymentRepo.GetByIDForUpdate(paymentID)
		if err != nil {
			return err
		}
		if payment == nil {
			return ErrPaymentNotFound
		}
		if payment.Status == constants.PaymentStatusRefunded {
			refunded = payment
			alreadyRefunded = true
			return nil
		}

		var order *models.Order
		if payment.OrderID != 0 {
			order, err = orderRepo.GetByIDForUpdate(payment.OrderID)
			if err != nil {
				return err
			}
		}

		// 只有完成支付的订单才发生过出库，需要逐项回补
		if order != nil && order.PaymentStatus == constants.PaymentStatusCompleted {
			for _, item := range order.Items {
				if _, err := s.inventory.AdjustStock(tx, item.ProductID, item.Quantity, constants.StockReasonRefund, order.OrderNo); err != nil {
					if errors.Is(err, ErrProductNotFound) {
						return ErrStockDataBroken
					}
					return err
				}
			}
		}

		now := time.Now()
		payment.Status = constants.PaymentStatusRefunded
		payment.RefundedAt = &now
		if trimmed := strings.TrimSpace(reason); trimmed != "" {
			payment.Notes = trimmed
		}
		if err := paymentRepo.Update(payment); err != nil {
			return err
		}

		if order != nil {
			updates := map[string]interface{}{
				"payment_status": constants.PaymentStatusRefunded,
				"status":         constants.OrderStatusCanceled,
				"canceled_at":    now,
				"updated_at":     now,
			}
			if err := orderRepo.UpdateStatus(order.ID, updates); err != nil {
				return err
			}
		}
		refunded = payment
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !alreadyRefunded {
		if err := s.queueClient.EnqueueAuditEvent(queue.AuditEventPayload{
			Event:     constants.AuditEventPaymentRefunded,
			PaymentID: refunded.ID,
			OrderID:   refunded.OrderID,
			ActorID:   actorID,
			Reason:    reason,
		}); err != nil {
			logger.Warnw("payment_refund_audit_enqueue_failed", "payment_id", refunded.ID, "error", err)
		}
	}
	return refunded, nil
}

// RefundOrder 订单级退款：不回补库存，仅允许已完成支付的订单
func (s *PaymentService) RefundOrder(orderID uint, reason string, actorID uint) (*models.Order, error) {
	var refunded *models.Order
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		order, err := orderRepo.GetByIDForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		if order.PaymentStatus == constants.PaymentStatusRefunded {
			refunded = order
			return nil
		}
		if order.PaymentStatus != constants.PaymentStatusCompleted {
			return ErrOrderStateInvalid
		}

		now := time.Now()
		updates := map[string]interface{}{
			"payment_status": constants.PaymentStatusRefunded,
			"status":         constants.OrderStatusCanceled,
			"canceled_at":    now,
			"updated_at":     now,
		}
		if err := orderRepo.UpdateStatus(order.ID, updates); err != nil {
			return err
		}
		order.PaymentStatus = constants.PaymentStatusRefunded
		order.Status = constants.OrderStatusCanceled
		order.CanceledAt = &now
		refunded = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.queueClient.EnqueueAuditEvent(queue.AuditEventPayload{
		Event:   constants.AuditEventOrderRefunded,
		OrderID: refunded.ID,
		ActorID: actorID,
		Reason:  reason,
	}); err != nil {
		logger.Warnw("order_refund_audit_enqueue_failed", "order_id", refunded.ID, "error", err)
	}
	return refunded, nil
}

// GetPayment 支付单详情
func (s *PaymentService) GetPayment(paymentID uint) (*models.Payment, error) {
	if paymentID == 0 {
		return nil, ErrPaymentNotFound
	}
	payment, err := s.paymentRepo.GetByID(paymentID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, ErrPaymentNotFound
	}
	return payment, nil
}

// ListPayments 管理端支付单列表
func (s *PaymentService) ListPayments(filter repository.PaymentListFilter) ([]models.Payment, int64, error) {
	return s.paymentRepo.ListAdmin(filter)
}

func (s *PaymentService) locatePayment(paymentID uint, providerRef string) (*models.Payment, error) {
	if paymentID != 0 {
		payment, err := s.paymentRepo.GetByID(paymentID)
		if err != nil {
			return nil, err
		}
		if payment != nil {
			return payment, nil
		}
	}
	if strings.TrimSpace(providerRef) != "" {
		return s.paymentRepo.GetByProviderRef(providerRef)
	}
	return nil, nil
}
