package service

import (
	"strings"

	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/repository"
)

// PostService 内容页服务
type PostService struct {
	postRepo repository.PostRepository
}

// NewPostService 创建内容页服务
func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

// GetPublishedPost 前台按标识获取已发布内容页
func (s *PostService) GetPublishedPost(slug string) (*models.Post, error) {
	post, err := s.postRepo.GetBySlug(strings.TrimSpace(slug), true)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}

// ListPosts 内容页列表
func (s *PostService) ListPosts(filter repository.PostListFilter) ([]models.Post, int64, error) {
	return s.postRepo.List(filter)
}

// CreatePost 创建内容页
func (s *PostService) CreatePost(post *models.Post) error {
	if post == nil {
		return ErrPostNotFound
	}
	post.Slug = strings.TrimSpace(post.Slug)
	if post.Slug == "" || strings.TrimSpace(post.Title) == "" {
		return ErrPostNotFound
	}
	existing, err := s.postRepo.GetBySlug(post.Slug, false)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrPostSlugExists
	}
	if post.Status == "" {
		post.Status = constants.PostStatusDraft
	}
	return s.postRepo.Create(post)
}

// UpdatePost 更新内容页
func (s *PostService) UpdatePost(post *models.Post) error {
	if post == nil || post.ID == 0 {
		return ErrPostNotFound
	}
	existing, err := s.postRepo.GetByID(post.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrPostNotFound
	}
	post.Slug = strings.TrimSpace(post.Slug)
	if post.Slug != existing.Slug {
		other, err := s.postRepo.GetBySlug(post.Slug, false)
		if err != nil {
			return err
		}
		if other != nil && other.ID != post.ID {
			return ErrPostSlugExists
		}
	}
	return s.postRepo.Update(post)
}

// DeletePost 删除内容页
func (s *PostService) DeletePost(id uint) error {
	existing, err := s.postRepo.GetByID(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrPostNotFound
	}
	return s.postRepo.Delete(id)
}
