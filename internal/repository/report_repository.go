package repository

import (
	"fmt"
	"time"

	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/models"

	"gorm.io/gorm"
)

// ReportRepository 报表聚合查询接口
// 说明：仅聚合统计数据，不承载业务规则。
type ReportRepository interface {
	GetSalesSummary(startAt, endAt time.Time) (SalesSummaryRow, error)
	GetDailySales(startAt, endAt time.Time) ([]DailySalesRow, error)
	GetTopProducts(startAt, endAt time.Time, limit int) ([]ProductSalesRow, error)
}

// SalesSummaryRow 销售总览原始统计结果
type SalesSummaryRow struct {
	OrdersTotal     int64
	OrdersCompleted int64
	OrdersRefunded  int64
	OrdersPending   int64
	Revenue         float64
	RefundedAmount  float64
	NewUsers        int64
}

// DailySalesRow 按天销售统计
type DailySalesRow struct {
	Day     string
	Orders  int64
	Revenue float64
}

// ProductSalesRow 商品销量排行原始行
type ProductSalesRow struct {
	ProductID   uint
	ProductName string
	Quantity    int64
	Amount      float64
}

// GormReportRepository GORM 报表聚合实现
type GormReportRepository struct {
	db *gorm.DB
}

// NewReportRepository 创建报表仓库
func NewReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// GetSalesSummary 获取销售总览
func (r *GormReportRepository) GetSalesSummary(startAt, endAt time.Time) (SalesSummaryRow, error) {
	result := SalesSummaryRow{}

	orderBase := func() *gorm.DB {
		return r.db.Model(&models.Order{}).
			Where("created_at >= ? AND created_at < ?", startAt, endAt)
	}

	if err := orderBase().Count(&result.OrdersTotal).Error; err != nil {
		return result, err
	}
	if err := orderBase().Where("payment_status = ?", constants.PaymentStatusCompleted).
		Count(&result.OrdersCompleted).Error; err != nil {
		return result, err
	}
	if err := orderBase().Where("payment_status = ?", constants.PaymentStatusRefunded).
		Count(&result.OrdersRefunded).Error; err != nil {
		return result, err
	}
	if err := orderBase().Where("payment_status = ?", constants.PaymentStatusPending).
		Count(&result.OrdersPending).Error; err != nil {
		return result, err
	}

	if err := orderBase().Where("payment_status = ?", constants.PaymentStatusCompleted).
		Select("COALESCE(SUM(total), 0)").
		Scan(&result.Revenue).Error; err != nil {
		return result, err
	}
	if err := orderBase().Where("payment_status = ?", constants.PaymentStatusRefunded).
		Select("COALESCE(SUM(total), 0)").
		Scan(&result.RefundedAmount).Error; err != nil {
		return result, err
	}

	if err := r.db.Model(&models.User{}).
		Where("created_at >= ? AND created_at < ?", startAt, endAt).
		Count(&result.NewUsers).Error; err != nil {
		return result, err
	}

	return result, nil
}

// GetDailySales 获取按天销售统计
func (r *GormReportRepository) GetDailySales(startAt, endAt time.Time) ([]DailySalesRow, error) {
	dayExpr := "CAST(date(created_at) AS TEXT)"
	var rows []DailySalesRow
	if err := r.db.Model(&models.Order{}).
		Select(fmt.Sprintf("%s as day, COUNT(*) as orders, COALESCE(SUM(total), 0) as revenue", dayExpr)).
		Where("created_at >= ? AND created_at < ? AND payment_status = ?", startAt, endAt, constants.PaymentStatusCompleted).
		Group(dayExpr).
		Order("day asc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetTopProducts 获取商品销量排行
func (r *GormReportRepository) GetTopProducts(startAt, endAt time.Time, limit int) ([]ProductSalesRow, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []ProductSalesRow
	if err := r.db.Model(&models.OrderItem{}).
		Select("order_items.product_id as product_id, order_items.product_name as product_name, "+
			"SUM(order_items.quantity) as quantity, COALESCE(SUM(order_items.total_price), 0) as amount").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.created_at >= ? AND orders.created_at < ? AND orders.payment_status = ?",
			startAt, endAt, constants.PaymentStatusCompleted).
		Group("order_items.product_id, order_items.product_name").
		Order("quantity desc").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
