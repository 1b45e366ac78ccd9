package repository

import (
	"errors"
	"fmt"

	"github.com/storefront-next/internal/models"

	"gorm.io/gorm"
)

// PostRepository 内容页数据访问接口
type PostRepository interface {
	GetByID(id uint) (*models.Post, error)
	GetBySlug(slug string, onlyPublished bool) (*models.Post, error)
	Create(post *models.Post) error
	Update(post *models.Post) error
	Delete(id uint) error
	List(filter PostListFilter) ([]models.Post, int64, error)
}

// GormPostRepository GORM 实现
type GormPostRepository struct {
	db *gorm.DB
}

// NewPostRepository 创建内容页仓库
func NewPostRepository(db *gorm.DB) *GormPostRepository {
	return &GormPostRepository{db: db}
}

// GetByID 根据ID获取内容页
func (r *GormPostRepository) GetByID(id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// GetBySlug 根据 slug 获取内容页
func (r *GormPostRepository) GetBySlug(slug string, onlyPublished bool) (*models.Post, error) {
	query := r.db.Where("slug = ?", slug)
	if onlyPublished {
		query = query.Where("status = ?", "published")
	}
	var post models.Post
	if err := query.First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// Create 创建内容页
func (r *GormPostRepository) Create(post *models.Post) error {
	return r.db.Create(post).Error
}

// Update 更新内容页
func (r *GormPostRepository) Update(post *models.Post) error {
	return r.db.Save(post).Error
}

// Delete 删除内容页
func (r *GormPostRepository) Delete(id uint) error {
	return r.db.Delete(&models.Post{}, id).Error
}

// List 获取内容页列表
func (r *GormPostRepository) List(filter PostListFilter) ([]models.Post, int64, error) {
	query := r.db.Model(&models.Post{})
	if filter.Search != "" {
		pattern := fmt.Sprintf("%%%s%%", filter.Search)
		query = query.Where("title LIKE ?", pattern)
	}
	if filter.OnlyPublished {
		query = query.Where("status = ?", "published")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var posts []models.Post
	if err := query.Order("sort_order desc, id desc").Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}
