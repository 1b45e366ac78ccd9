package service

import (
	"strings"

	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/repository"
)

// CategoryService 商品分类服务
type CategoryService struct {
	categoryRepo repository.CategoryRepository
}

// NewCategoryService 创建分类服务
func NewCategoryService(categoryRepo repository.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// GetCategory 获取分类
func (s *CategoryService) GetCategory(id uint) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	return category, nil
}

// ListCategories 获取分类列表
func (s *CategoryService) ListCategories(onlyActive bool) ([]models.Category, error) {
	return s.categoryRepo.List(onlyActive)
}

// CreateCategory 创建分类
func (s *CategoryService) CreateCategory(category *models.Category) error {
	category.Slug = strings.TrimSpace(strings.ToLower(category.Slug))
	existing, err := s.categoryRepo.GetBySlug(category.Slug)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrCategorySlugExists
	}
	return s.categoryRepo.Create(category)
}

// UpdateCategory 更新分类
func (s *CategoryService) UpdateCategory(category *models.Category) error {
	existing, err := s.categoryRepo.GetByID(category.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrCategoryNotFound
	}
	category.Slug = strings.TrimSpace(strings.ToLower(category.Slug))
	if category.Slug != existing.Slug {
		other, err := s.categoryRepo.GetBySlug(category.Slug)
		if err != nil {
			return err
		}
		if other != nil && other.ID != category.ID {
			return ErrCategorySlugExists
		}
	}
	return s.categoryRepo.Update(category)
}

// DeleteCategory 删除分类
func (s *CategoryService) DeleteCategory(id uint) error {
	existing, err := s.categoryRepo.GetByID(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrCategoryNotFound
	}
	return s.categoryRepo.Delete(id)
}
