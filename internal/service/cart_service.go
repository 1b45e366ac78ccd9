package service

import (
	"strings"

	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/repository"

	"github.com/shopspring/decimal"
)

// CartService 购物车服务
type CartService struct {
	cartRepo     repository.CartRepository
	productRepo  repository.ProductRepository
	orderService *OrderService
}

// NewCartService 创建购物车服务
func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	orderService *OrderService,
) *CartService {
	return &CartService{
		cartRepo:     cartRepo,
		productRepo:  productRepo,
		orderService: orderService,
	}
}

// CartItemDetail 购物车项详情（带商品与小计）
type CartItemDetail struct {
	ProductID uint            `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice models.Money    `json:"unit_price"`
	LineTotal models.Money    `json:"line_total"`
	Product   *models.Product `json:"product"`
}

// CartDetail 购物车详情
type CartDetail struct {
	Items    []CartItemDetail `json:"items"`
	Subtotal models.Money     `json:"subtotal"`
}

// UpsertCartItemInput 购物车更新输入
type UpsertCartItemInput struct {
	UserID    uint
	ProductID uint
	Quantity  int
}

// GetCart 获取用户购物车；已下架或已删除的商品在读取时顺手清掉
func (s *CartService) GetCart(userID uint) (*CartDetail, error) {
	if userID == 0 {
		return nil, ErrCartItemInvalid
	}
	items, err := s.cartRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	detail := &CartDetail{
		Items:    make([]CartItemDetail, 0, len(items)),
		Subtotal: models.NewMoneyFromInt(0),
	}
	for _, item := range items {
		product := item.Product
		if product == nil || product.ID == 0 {
			p, err := s.productRepo.GetByID(item.ProductID)
			if err != nil {
				return nil, err
			}
			product = p
		}
		if product == nil || !product.IsActive {
			_ = s.cartRepo.DeleteByUserAndProduct(userID, item.ProductID)
			continue
		}

		lineTotal := models.NewMoneyFromDecimal(
			product.Price.Decimal.Mul(decimal.NewFromInt(int64(item.Quantity))),
		)
		detail.Items = append(detail.Items, CartItemDetail{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: product.Price,
			LineTotal: lineTotal,
			Product:   product,
		})
		detail.Subtotal = models.NewMoneyFromDecimal(detail.Subtotal.Decimal.Add(lineTotal.Decimal))
	}
	return detail, nil
}

// UpsertItem 添加或更新购物车项（数量覆盖）
func (s *CartService) UpsertItem(input UpsertCartItemInput) error {
	if input.UserID == 0 || input.ProductID == 0 || input.Quantity <= 0 {
		return ErrCartItemInvalid
	}
	product, err := s.productRepo.GetByID(input.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}
	if !product.IsActive {
		return ErrProductInactive
	}
	// 加购即校验库存，最终扣减仍在下单事务内
	if product.Stock < input.Quantity {
		return ErrStockInsufficient
	}

	return s.cartRepo.Upsert(&models.CartItem{
		UserID:    input.UserID,
		ProductID: input.ProductID,
		Quantity:  input.Quantity,
	})
}

// RemoveItem 删除购物车项
func (s *CartService) RemoveItem(userID, productID uint) error {
	if userID == 0 || productID == 0 {
		return ErrCartItemInvalid
	}
	return s.cartRepo.DeleteByUserAndProduct(userID, productID)
}

// ClearCart 清空购物车
func (s *CartService) ClearCart(userID uint) error {
	if userID == 0 {
		return ErrCartItemInvalid
	}
	return s.cartRepo.ClearByUser(userID)
}

// Checkout 将当前购物车整车下单，成功后清空购物车
func (s *CartService) Checkout(userID uint, shippingAddr, notes string) (*models.Order, error) {
	if userID == 0 {
		return nil, ErrCartItemInvalid
	}
	items, err := s.cartRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrCartEmpty
	}

	input := CreateOrderInput{
		UserID:       userID,
		ShippingAddr: strings.TrimSpace(shippingAddr),
		Notes:        notes,
	}
	for _, item := range items {
		input.Items = append(input.Items, CreateOrderItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	order, err := s.orderService.CreateOrder(input)
	if err != nil {
		return nil, err
	}

	// 清空失败不回滚订单，下一次读取会重新同步
	if err := s.cartRepo.ClearByUser(userID); err != nil {
		logger.Warnw("cart_clear_after_checkout_failed", "user_id", userID, "order_id", order.ID, "error", err)
	}
	return order, nil
}
