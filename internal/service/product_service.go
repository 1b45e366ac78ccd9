package service

import (
	"strings"

	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/repository"

	"gorm.io/gorm"
)

// ProductService 商品服务
type ProductService struct {
	productRepo repository.ProductRepository
	inventory   *InventoryService
}

// NewProductService 创建商品服务
func NewProductService(productRepo repository.ProductRepository, inventory *InventoryService) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		inventory:   inventory,
	}
}

// GetProduct 商品详情
func (s *ProductService) GetProduct(id uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// GetProductBySlug 按标识获取上架商品
func (s *ProductService) GetProductBySlug(slug string) (*models.Product, error) {
	product, err := s.productRepo.GetBySlug(strings.TrimSpace(slug))
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// ListProducts 商品列表
func (s *ProductService) ListProducts(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	return s.productRepo.List(filter)
}

// CreateProduct 创建商品
func (s *ProductService) CreateProduct(product *models.Product) error {
	if product == nil || strings.TrimSpace(product.Name) == "" {
		return ErrProductNotFound
	}
	product.Slug = strings.TrimSpace(product.Slug)
	return s.productRepo.Create(product)
}

// UpdateProduct 更新商品
func (s *ProductService) UpdateProduct(product *models.Product) error {
	if product == nil || product.ID == 0 {
		return ErrProductNotFound
	}
	existing, err := s.productRepo.GetByID(product.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrProductNotFound
	}
	return s.productRepo.Update(product)
}

// DeleteProduct 删除商品
func (s *ProductService) DeleteProduct(id uint) error {
	existing, err := s.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrProductNotFound
	}
	return s.productRepo.Delete(id)
}

// AdjustProductStock 管理端手工调整库存，同时落一条流水
func (s *ProductService) AdjustProductStock(productID uint, delta int, reference string) (int, error) {
	var stockAfter int
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		after, err := s.inventory.AdjustStock(tx, productID, delta, constants.StockReasonAdjustment, reference)
		if err != nil {
			return err
		}
		stockAfter = after
		return nil
	})
	if err != nil {
		return 0, err
	}
	return stockAfter, nil
}
