package admin

import (
	"strconv"
	"strings"

	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// ProductRequest 商品创建/更新请求
type ProductRequest struct {
	CategoryID  uint         `json:"category_id" binding:"required"`
	Slug        string       `json:"slug" binding:"required"`
	Name        string       `json:"name" binding:"required"`
	Description string       `json:"description"`
	Price       models.Money `json:"price"`
	Images      []string     `json:"images"`
	Tags        []string     `json:"tags"`
	Stock       int          `json:"stock"`
	IsActive    *bool        `json:"is_active"`
	SortOrder   int          `json:"sort_order"`
}

// AdjustStockRequest 库存调整请求
type AdjustStockRequest struct {
	Delta     int    `json:"delta" binding:"required"`
	Reference string `json:"reference"`
}

func (r ProductRequest) apply(product *models.Product) {
	product.CategoryID = r.CategoryID
	product.Slug = strings.TrimSpace(strings.ToLower(r.Slug))
	product.Name = r.Name
	product.Description = r.Description
	product.Price = r.Price
	product.Images = models.StringArray(r.Images)
	product.Tags = models.StringArray(r.Tags)
	product.SortOrder = r.SortOrder
	if r.IsActive != nil {
		product.IsActive = *r.IsActive
	}
}

// GetAdminProducts 获取商品列表（含下架商品）
func (h *Handler) GetAdminProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	categoryID, _ := strconv.Atoi(c.Query("category_id"))

	products, total, err := h.ProductService.ListProducts(repository.ProductListFilter{
		Page:       page,
		PageSize:   pageSize,
		CategoryID: uint(categoryID),
		Search:     strings.TrimSpace(c.Query("search")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "获取商品列表失败", err)
		return
	}

	pagination := response.BuildPagination(page, pageSize, total)
	response.SuccessWithPage(c, products, pagination)
}

// GetAdminProduct 获取商品详情
func (h *Handler) GetAdminProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		respondError(c, response.CodeBadRequest, "商品ID无效", nil)
		return
	}

	product, err := h.ProductService.GetProduct(uint(id))
	if err != nil {
		respondWithMappedError(c, err, productAdminErrorRules, response.CodeInternal, "获取商品失败")
		return
	}

	response.Success(c, product)
}

// CreateProduct 创建商品
func (h *Handler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}

	product := &models.Product{Stock: req.Stock, IsActive: true}
	req.apply(product)

	if err := h.ProductService.CreateProduct(product); err != nil {
		respondWithMappedError(c, err, productAdminErrorRules, response.CodeInternal, "创建商品失败")
		return
	}

	response.Success(c, product)
}

// UpdateProduct 更新商品（库存走库存调整接口）
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		respondError(c, response.CodeBadRequest, "商品ID无效", nil)
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}

	product, err := h.ProductService.GetProduct(uint(id))
	if err != nil {
		respondWithMappedError(c, err, productAdminErrorRules, response.CodeInternal, "更新商品失败")
		return
	}

	req.apply(product)
	if err := h.ProductService.UpdateProduct(product); err != nil {
		respondWithMappedError(c, err, productAdminErrorRules, response.CodeInternal, "更新商品失败")
		return
	}

	response.Success(c, product)
}

// DeleteProduct 删除商品
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		respondError(c, response.CodeBadRequest, "商品ID无效", nil)
		return
	}

	if err := h.ProductService.DeleteProduct(uint(id)); err != nil {
		respondWithMappedError(c, err, productAdminErrorRules, response.CodeInternal, "删除商品失败")
		return
	}

	response.Success(c, nil)
}

// AdjustProductStock 手工调整库存
func (h *Handler) AdjustProductStock(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		respondError(c, response.CodeBadRequest, "商品ID无效", nil)
		return
	}

	var req AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}

	stockAfter, err := h.ProductService.AdjustProductStock(uint(id), req.Delta, req.Reference)
	if err != nil {
		respondWithMappedError(c, err, productAdminErrorRules, response.CodeInternal, "库存调整失败")
		return
	}

	response.Success(c, gin.H{"product_id": uint(id), "stock": stockAfter})
}

// GetInventoryMovements 获取库存流水列表
func (h *Handler) GetInventoryMovements(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	productID, _ := strconv.Atoi(c.Query("product_id"))

	movements, total, err := h.InventoryService.ListMovements(repository.MovementListFilter{
		Page:      page,
		PageSize:  pageSize,
		ProductID: uint(productID),
		Reason:    strings.TrimSpace(c.Query("reason")),
		Reference: strings.TrimSpace(c.Query("reference")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "获取库存流水失败", err)
		return
	}

	pagination := response.BuildPagination(page, pageSize, total)
	response.SuccessWithPage(c, movements, pagination)
}
