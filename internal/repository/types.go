package repository

import "time"

// ProductListFilter 查询商品列表的过滤条件
type ProductListFilter struct {
	Page       int
	PageSize   int
	CategoryID uint
	Search     string
	OnlyActive bool
	InStock    bool
}

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page          int
	PageSize      int
	UserID        uint
	Status        string
	PaymentStatus string
	OrderNo       string
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
}

// PaymentListFilter 查询支付列表的过滤条件
type PaymentListFilter struct {
	Page        int
	PageSize    int
	OrderID     uint
	Provider    string
	Status      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// CouponListFilter 优惠券列表筛选
type CouponListFilter struct {
	Page     int
	PageSize int
	Code     string
	Status   string
	Type     string
}

// ReviewListFilter 评价列表筛选
type ReviewListFilter struct {
	Page      int
	PageSize  int
	ProductID uint
	UserID    uint
	MinRating int
}

// PostListFilter 内容页列表筛选
type PostListFilter struct {
	Page          int
	PageSize      int
	Search        string
	OnlyPublished bool
}

// MovementListFilter 库存流水列表筛选
type MovementListFilter struct {
	Page      int
	PageSize  int
	ProductID uint
	Reason    string
	Reference string
}
