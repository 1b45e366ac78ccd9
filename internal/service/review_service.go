package service

import (
	"strings"

	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/repository"

	"gorm.io/gorm"
)

// ReviewService 商品评价服务
type ReviewService struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
}

// NewReviewService 创建商品评价服务
func NewReviewService(
	reviewRepo repository.ReviewRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
	}
}

// CreateReviewInput 创建评价入参
type CreateReviewInput struct {
	UserID    uint
	ProductID uint
	OrderID   uint
	Rating    int
	Content   string
}

// CreateReview 创建评价：仅限已完成订单中的商品，每人每商品一条
func (s *ReviewService) CreateReview(input CreateReviewInput) (*models.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, ErrReviewRatingInvalid
	}

	order, err := s.orderRepo.GetByIDAndUser(input.OrderID, input.UserID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status != constants.OrderStatusCompleted && order.Status != constants.OrderStatusDelivered {
		return nil, ErrReviewNotAllowed
	}
	found := false
	for _, item := range order.Items {
		if item.ProductID == input.ProductID {
			found = true
			break
		}
	}
	if !found {
		return nil, ErrReviewNotAllowed
	}

	existing, err := s.reviewRepo.GetByUserAndProduct(input.UserID, input.ProductID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrReviewExists
	}

	review := &models.Review{
		ProductID: input.ProductID,
		UserID:    input.UserID,
		OrderID:   input.OrderID,
		Rating:    input.Rating,
		Content:   strings.TrimSpace(input.Content),
	}
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.reviewRepo.WithTx(tx).Create(review); err != nil {
			return err
		}
		return s.productRepo.WithTx(tx).AddRating(input.ProductID, input.Rating)
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}

// ListReviews 评价列表
func (s *ReviewService) ListReviews(filter repository.ReviewListFilter) ([]models.Review, int64, error) {
	return s.reviewRepo.List(filter)
}
