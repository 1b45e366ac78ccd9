package service

import "errors"

// 优惠券错误
var (
	ErrCouponNotFound       = errors.New("优惠券不存在")
	ErrCouponInvalid        = errors.New("优惠券无效")
	ErrCouponInactive       = errors.New("优惠券未启用")
	ErrCouponNotStarted     = errors.New("优惠券尚未生效")
	ErrCouponExpired        = errors.New("优惠券已过期")
	ErrCouponUsageLimit     = errors.New("优惠券已达使用上限")
	ErrCouponPerUserLimit   = errors.New("优惠券已达个人使用上限")
	ErrCouponMinAmount      = errors.New("订单金额未达到优惠券门槛")
	ErrCouponCodeExists     = errors.New("优惠券码已存在")
	ErrCouponAlreadyApplied = errors.New("订单已使用优惠券")
)

// 订单错误
var (
	ErrOrderNotFound     = errors.New("订单不存在")
	ErrOrderStateInvalid = errors.New("订单状态不允许该操作")
	ErrOrderUpdateFailed = errors.New("订单更新失败")
	ErrOrderEmpty        = errors.New("订单商品不能为空")
	ErrOrderItemInvalid  = errors.New("订单商品无效")
)

// 购物车错误
var (
	ErrCartEmpty       = errors.New("购物车为空")
	ErrCartItemInvalid = errors.New("购物车参数无效")
)

// 支付错误
var (
	ErrPaymentNotFound             = errors.New("支付单不存在")
	ErrPaymentInvalid              = errors.New("支付参数无效")
	ErrPaymentStateInvalid         = errors.New("支付状态不允许该操作")
	ErrPaymentUpdateFailed         = errors.New("支付单更新失败")
	ErrPaymentProviderNotSupported = errors.New("不支持的支付方式")
)

// 商品与库存错误
var (
	ErrProductNotFound   = errors.New("商品不存在")
	ErrProductInactive   = errors.New("商品已下架")
	ErrStockInsufficient = errors.New("商品库存不足")
	ErrStockDataBroken   = errors.New("库存数据异常")
)

// 评价错误
var (
	ErrReviewExists        = errors.New("已评价过该商品")
	ErrReviewRatingInvalid = errors.New("评分超出范围")
	ErrReviewNotAllowed    = errors.New("仅支持评价已完成订单中的商品")
)

// 分类错误
var (
	ErrCategoryNotFound   = errors.New("分类不存在")
	ErrCategorySlugExists = errors.New("分类标识已存在")
)

// 内容页错误
var (
	ErrPostNotFound   = errors.New("内容页不存在")
	ErrPostSlugExists = errors.New("内容页标识已存在")
)

// 用户错误
var (
	ErrUserNotFound      = errors.New("用户不存在")
	ErrUserEmailExists   = errors.New("邮箱已被注册")
	ErrUserDisabled      = errors.New("用户已被禁用")
	ErrPasswordIncorrect = errors.New("邮箱或密码错误")
)
