package service

import (
	"context"
	"fmt"
	"time"

	"github.com/storefront-next/internal/cache"
	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/repository"
)

const reportCacheTTL = 5 * time.Minute

// ReportService 经营报表服务，结果带 Redis 缓存
type ReportService struct {
	reportRepo repository.ReportRepository
}

// NewReportService 创建报表服务
func NewReportService(reportRepo repository.ReportRepository) *ReportService {
	return &ReportService{reportRepo: reportRepo}
}

// SalesReport 销售报表
type SalesReport struct {
	StartAt         time.Time                    `json:"start_at"`
	EndAt           time.Time                    `json:"end_at"`
	OrdersTotal     int64                        `json:"orders_total"`
	OrdersCompleted int64                        `json:"orders_completed"`
	OrdersRefunded  int64                        `json:"orders_refunded"`
	OrdersPending   int64                        `json:"orders_pending"`
	Revenue         float64                      `json:"revenue"`
	RefundedAmount  float64                      `json:"refunded_amount"`
	NewUsers        int64                        `json:"new_users"`
	Daily           []repository.DailySalesRow   `json:"daily"`
	TopProducts     []repository.ProductSalesRow `json:"top_products"`
}

// GetSalesReport 生成指定时间段的销售报表
func (s *ReportService) GetSalesReport(ctx context.Context, startAt, endAt time.Time, topLimit int) (*SalesReport, error) {
	if endAt.Before(startAt) {
		startAt, endAt = endAt, startAt
	}
	if topLimit <= 0 {
		topLimit = 10
	}

	cacheKey := fmt.Sprintf("report:sales:%d:%d:%d", startAt.Unix(), endAt.Unix(), topLimit)
	var cached SalesReport
	if hit, err := cache.GetJSON(ctx, cacheKey, &cached); err == nil && hit {
		return &cached, nil
	}

	summary, err := s.reportRepo.GetSalesSummary(startAt, endAt)
	if err != nil {
		return nil, err
	}
	daily, err := s.reportRepo.GetDailySales(startAt, endAt)
	if err != nil {
		return nil, err
	}
	top, err := s.reportRepo.GetTopProducts(startAt, endAt, topLimit)
	if err != nil {
		return nil, err
	}

	report := &SalesReport{
		StartAt:         startAt,
		EndAt:           endAt,
		OrdersTotal:     summary.OrdersTotal,
		OrdersCompleted: summary.OrdersCompleted,
		OrdersRefunded:  summary.OrdersRefunded,
		OrdersPending:   summary.OrdersPending,
		Revenue:         summary.Revenue,
		RefundedAmount:  summary.RefundedAmount,
		NewUsers:        summary.NewUsers,
		Daily:           daily,
		TopProducts:     top,
	}

	if err := cache.SetJSON(ctx, cacheKey, report, reportCacheTTL); err != nil {
		logger.Debugw("report_cache_set_failed", "key", cacheKey, "error", err)
	}
	return report, nil
}
