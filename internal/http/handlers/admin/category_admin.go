package admin

import (
	"strconv"

	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/models"

	"github.com/gin-gonic/gin"
)

// CategoryRequest 分类创建/更新请求
type CategoryRequest struct {
	Slug        string `json:"slug" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order"`
	IsActive    *bool  `json:"is_active"`
}

func (r CategoryRequest) apply(category *models.Category) {
	category.Slug = r.Slug
	category.Name = r.Name
	category.Description = r.Description
	category.SortOrder = r.SortOrder
	if r.IsActive != nil {
		category.IsActive = *r.IsActive
	}
}

// GetAdminCategories 获取分类列表（含停用分类）
func (h *Handler) GetAdminCategories(c *gin.Context) {
	categories, err := h.CategoryService.ListCategories(false)
	if err != nil {
		respondError(c, response.CodeInternal, "获取分类列表失败", err)
		return
	}

	response.Success(c, categories)
}

// CreateCategory 创建分类
func (h *Handler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}

	category := &models.Category{IsActive: true}
	req.apply(category)

	if err := h.CategoryService.CreateCategory(category); err != nil {
		respondWithMappedError(c, err, categoryAdminErrorRules, response.CodeInternal, "创建分类失败")
		return
	}

	response.Success(c, category)
}

// UpdateCategory 更新分类
func (h *Handler) UpdateCategory(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		respondError(c, response.CodeBadRequest, "分类ID无效", nil)
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}

	category, err := h.CategoryService.GetCategory(uint(id))
	if err != nil {
		respondWithMappedError(c, err, categoryAdminErrorRules, response.CodeInternal, "更新分类失败")
		return
	}

	req.apply(category)
	if err := h.CategoryService.UpdateCategory(category); err != nil {
		respondWithMappedError(c, err, categoryAdminErrorRules, response.CodeInternal, "更新分类失败")
		return
	}

	response.Success(c, category)
}

// DeleteCategory 删除分类
func (h *Handler) DeleteCategory(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		respondError(c, response.CodeBadRequest, "分类ID无效", nil)
		return
	}

	if err := h.CategoryService.DeleteCategory(uint(id)); err != nil {
		respondWithMappedError(c, err, categoryAdminErrorRules, response.CodeInternal, "删除分类失败")
		return
	}

	response.Success(c, nil)
}
