package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/storefront-next/internal/config"
	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/queue"
	"github.com/storefront-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderService 订单服务
type OrderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	inventory   *InventoryService
	queueClient *queue.Client
	checkoutCfg *config.CheckoutConfig
}

// NewOrderService 创建订单服务
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	inventory *InventoryService,
	queueClient *queue.Client,
	checkoutCfg *config.CheckoutConfig,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		inventory:   inventory,
		queueClient: queueClient,
		checkoutCfg: checkoutCfg,
	}
}

// CreateOrderInput 下单入参
type CreateOrderInput struct {
	UserID       uint
	Items        []CreateOrderItemInput
	ShippingAddr string
	Notes        string
}

// CreateOrderItemInput 下单商品入参
type CreateOrderItemInput struct {
	ProductID uint
	Quantity  int
}

// CreateOrder 创建订单：校验商品、扣减库存、落库订单与行项目，同一事务
func (s *OrderService) CreateOrder(input CreateOrderInput) (*models.Order, error) {
	if input.UserID == 0 {
		return nil, ErrOrderNotFound
	}
	if len(input.Items) == 0 {
		return nil, ErrOrderEmpty
	}
	for _, item := range input.Items {
		if item.ProductID == 0 || item.Quantity <= 0 {
			return nil, ErrOrderItemInvalid
		}
	}

	orderNo := generateOrderNo()
	now := time.Now()

	var created *models.Order
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)

		subtotal := decimal.Zero
		items := make([]models.OrderItem, 0, len(input.Items))
		for _, in := range input.Items {
			product, err := productRepo.GetByID(in.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return ErrProductNotFound
			}
			if !product.IsActive {
				return ErrProductInactive
			}

			// 扣减为单条条件更新，并发下单不会超卖
			if _, err := s.inventory.AdjustStock(tx, product.ID, -in.Quantity, constants.StockReasonSale, orderNo); err != nil {
				return err
			}

			lineTotal := product.Price.Decimal.Mul(decimal.NewFromInt(int64(in.Quantity)))
			subtotal = subtotal.Add(lineTotal)
			items = append(items, models.OrderItem{
				ProductID:   product.ID,
				ProductName: product.Name,
				UnitPrice:   product.Price,
				Quantity:    in.Quantity,
				TotalPrice:  models.NewMoneyFromDecimal(lineTotal),
			})
		}

		shipping := s.resolveShippingFee(subtotal)
		tax := s.resolveTax(subtotal)
		total := subtotal.Add(shipping).Add(tax)
		expiresAt := now.Add(s.paymentExpireDuration())

		order := &models.Order{
			OrderNo:       orderNo,
			UserID:        input.UserID,
			Status:        constants.OrderStatusPending,
			PaymentStatus: constants.PaymentStatusPending,
			Currency:      s.resolveCurrency(),
			Subtotal:      models.NewMoneyFromDecimal(subtotal),
			Discount:      models.NewMoneyFromInt(0),
			ShippingFee:   models.NewMoneyFromDecimal(shipping),
			Tax:           models.NewMoneyFromDecimal(tax),
			Total:         models.NewMoneyFromDecimal(total),
			ShippingAddr:  strings.TrimSpace(input.ShippingAddr),
			Notes:         strings.TrimSpace(input.Notes),
			ExpiresAt:     &expiresAt,
		}
		if err := orderRepo.Create(order, items); err != nil {
			return err
		}
		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.queueClient.EnqueueOrderTimeoutCancel(
		queue.OrderTimeoutCancelPayload{OrderID: created.ID},
		s.paymentExpireDuration(),
	); err != nil {
		logger.Warnw("order_timeout_task_enqueue_failed", "order_id", created.ID, "error", err)
	}

	return created, nil
}

// GetUserOrder 获取用户自己的订单，归属不符与不存在同样返回未找到
func (s *OrderService) GetUserOrder(orderID, userID uint) (*models.Order, error) {
	if orderID == 0 || userID == 0 {
		return nil, ErrOrderNotFound
	}
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListUserOrders 用户订单列表
func (s *OrderService) ListUserOrders(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.ListByUser(filter)
}

// GetOrderForAdmin 管理端订单详情
func (s *OrderService) GetOrderForAdmin(orderID uint) (*models.Order, error) {
	if orderID == 0 {
		return nil, ErrOrderNotFound
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListOrdersForAdmin 管理端订单列表
func (s *OrderService) ListOrdersForAdmin(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.ListAdmin(filter)
}

// UpdateStatus 管理端推进订单生命周期，非法跳转会被拒绝
func (s *OrderService) UpdateStatus(orderID uint, target string, actorID uint) (*models.Order, error) {
	target = strings.ToLower(strings.TrimSpace(target))
	if target == constants.OrderStatusCanceled {
		return s.CancelOrder(orderID, actorID, "管理员取消")
	}

	var updated *models.Order
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		order, err := orderRepo.GetByIDForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		if !isTransitionAllowed(order.Status, target) {
			return ErrOrderStateInvalid
		}
		if order.Status == target {
			updated = order
			return nil
		}
		updates := map[string]interface{}{
			"status":     target,
			"updated_at": time.Now(),
		}
		if err := orderRepo.UpdateStatus(order.ID, updates); err != nil {
			return err
		}
		order.Status = target
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.queueClient.EnqueueAuditEvent(queue.AuditEventPayload{
		Event:   constants.AuditEventStatusChanged,
		OrderID: updated.ID,
		ActorID: actorID,
		Reason:  target,
	}); err != nil {
		logger.Warnw("order_status_audit_enqueue_failed", "order_id", updated.ID, "error", err)
	}
	return updated, nil
}

// CancelOrder 取消未支付订单并回补库存；已支付订单需走退款
func (s *OrderService) CancelOrder(orderID uint, actorID uint, reason string) (*models.Order, error) {
	var canceled *models.Order
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		order, err := s.cancelTx(tx, orderID, time.Now())
		if err != nil {
			return err
		}
		canceled = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.queueClient.EnqueueAuditEvent(queue.AuditEventPayload{
		Event:   constants.AuditEventOrderCanceled,
		OrderID: canceled.ID,
		ActorID: actorID,
		Reason:  reason,
	}); err != nil {
		logger.Warnw("order_cancel_audit_enqueue_failed", "order_id", canceled.ID, "error", err)
	}
	return canceled, nil
}

// CancelExpired 取消一笔超时未支付订单，由队列任务触发
func (s *OrderService) CancelExpired(orderID uint) error {
	now := time.Now()
	return models.DB.Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.WithTx(tx).GetByIDForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		if order.ExpiresAt == nil || now.Before(*order.ExpiresAt) {
			return ErrOrderStateInvalid
		}
		if _, err := s.cancelTx(tx, orderID, now); err != nil {
			return err
		}
		return nil
	})
}

// CancelDueExpired 批量兜底取消已过期订单
func (s *OrderService) CancelDueExpired(now time.Time) error {
	orders, err := s.orderRepo.ListExpiredPending(100)
	if err != nil {
		return err
	}
	for _, order := range orders {
		if order.ExpiresAt == nil || now.Before(*order.ExpiresAt) {
			continue
		}
		if err := s.CancelExpired(order.ID); err != nil {
			if errors.Is(err, ErrOrderNotFound) || errors.Is(err, ErrOrderStateInvalid) {
				continue
			}
			logger.Warnw("order_expire_cancel_failed", "order_id", order.ID, "error", err)
		}
	}
	return nil
}

// cancelTx 事务内取消订单：仅允许未支付订单，库存按行项目回补
func (s *OrderService) cancelTx(tx *gorm.DB, orderID uint, now time.Time) (*models.Order, error) {
	orderRepo := s.orderRepo.WithTx(tx)
	order, err := orderRepo.GetByIDForUpdate(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status == constants.OrderStatusCanceled {
		return order, nil
	}
	if order.Status != constants.OrderStatusPending || order.PaymentStatus != constants.PaymentStatusPending {
		return nil, ErrOrderStateInvalid
	}

	for _, item := range order.Items {
		if _, err := s.inventory.AdjustStock(tx, item.ProductID, item.Quantity, constants.StockReasonRestock, order.OrderNo); err != nil {
			return nil, err
		}
	}

	updates := map[string]interface{}{
		"status":      constants.OrderStatusCanceled,
		"canceled_at": now,
		"updated_at":  now,
	}
	if err := orderRepo.UpdateStatus(order.ID, updates); err != nil {
		return nil, err
	}
	order.Status = constants.OrderStatusCanceled
	order.CanceledAt = &now
	return order, nil
}

func (s *OrderService) resolveCurrency() string {
	if s.checkoutCfg != nil && strings.TrimSpace(s.checkoutCfg.Currency) != "" {
		return strings.ToUpper(strings.TrimSpace(s.checkoutCfg.Currency))
	}
	return "KES"
}

func (s *OrderService) resolveShippingFee(subtotal decimal.Decimal) decimal.Decimal {
	if s.checkoutCfg == nil {
		return decimal.Zero
	}
	fee, err := decimal.NewFromString(strings.TrimSpace(s.checkoutCfg.ShippingFee))
	if err != nil || fee.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	threshold := strings.TrimSpace(s.checkoutCfg.FreeShippingOver)
	if threshold != "" {
		over, err := decimal.NewFromString(threshold)
		if err == nil && over.GreaterThan(decimal.Zero) && subtotal.GreaterThanOrEqual(over) {
			return decimal.Zero
		}
	}
	return fee
}

func (s *OrderService) resolveTax(subtotal decimal.Decimal) decimal.Decimal {
	if s.checkoutCfg == nil || s.checkoutCfg.TaxRatePercent <= 0 {
		return decimal.Zero
	}
	rate := decimal.NewFromFloat(s.checkoutCfg.TaxRatePercent).Div(decimal.NewFromInt(100))
	return subtotal.Mul(rate)
}

func (s *OrderService) paymentExpireDuration() time.Duration {
	minutes := 30
	if s.checkoutCfg != nil && s.checkoutCfg.PaymentExpireMinutes > 0 {
		minutes = s.checkoutCfg.PaymentExpireMinutes
	}
	return time.Duration(minutes) * time.Minute
}

func generateOrderNo() string {
	now := time.Now().Format("20060102150405")
	randPart := randNumeric(6)
	return fmt.Sprintf("SF%s%s", now, randPart)
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(fmt.Sprintf("%d", n.Int64()))
	}
	return b.String()
}
