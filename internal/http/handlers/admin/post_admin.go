package admin

import (
	"strconv"
	"strings"

	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// PostRequest 内容页创建/更新请求
type PostRequest struct {
	Slug      string `json:"slug" binding:"required"`
	Title     string `json:"title" binding:"required"`
	Content   string `json:"content"`
	Status    string `json:"status"`
	SortOrder int    `json:"sort_order"`
}

// GetAdminPosts 获取内容页列表（含草稿）
func (h *Handler) GetAdminPosts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	posts, total, err := h.PostService.ListPosts(repository.PostListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   strings.TrimSpace(c.Query("search")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "获取内容页列表失败", err)
		return
	}

	pagination := response.BuildPagination(page, pageSize, total)
	response.SuccessWithPage(c, posts, pagination)
}

// CreatePost 创建内容页
func (h *Handler) CreatePost(c *gin.Context) {
	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}

	post := &models.Post{
		Slug:      req.Slug,
		Title:     req.Title,
		Content:   req.Content,
		Status:    req.Status,
		SortOrder: req.SortOrder,
	}
	if err := h.PostService.CreatePost(post); err != nil {
		respondWithMappedError(c, err, postAdminErrorRules, response.CodeInternal, "创建内容页失败")
		return
	}

	response.Success(c, post)
}

// UpdatePost 更新内容页
func (h *Handler) UpdatePost(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		respondError(c, response.CodeBadRequest, "内容页ID无效", nil)
		return
	}

	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}

	post := &models.Post{
		ID:        uint(id),
		Slug:      req.Slug,
		Title:     req.Title,
		Content:   req.Content,
		Status:    req.Status,
		SortOrder: req.SortOrder,
	}
	if err := h.PostService.UpdatePost(post); err != nil {
		respondWithMappedError(c, err, postAdminErrorRules, response.CodeInternal, "更新内容页失败")
		return
	}

	response.Success(c, post)
}

// DeletePost 删除内容页
func (h *Handler) DeletePost(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		respondError(c, response.CodeBadRequest, "内容页ID无效", nil)
		return
	}

	if err := h.PostService.DeletePost(uint(id)); err != nil {
		respondWithMappedError(c, err, postAdminErrorRules, response.CodeInternal, "删除内容页失败")
		return
	}

	response.Success(c, nil)
}
