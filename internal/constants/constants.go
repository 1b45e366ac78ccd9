package constants

// 订单状态常量
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCompleted  = "completed"
	OrderStatusCanceled   = "canceled"
)

// 支付状态常量（订单与支付单共用）
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
)

// 支付提供方常量
const (
	PaymentProviderStripe = "stripe"
	PaymentProviderMpesa  = "mpesa"
	PaymentProviderManual = "manual"
)

// 支付交互方式常量
const (
	PaymentInteractionRedirect = "redirect"
	PaymentInteractionSTKPush  = "stk_push"
)

// 优惠券类型常量
const (
	CouponTypePercentage   = "percentage"
	CouponTypeFixedAmount  = "fixed_amount"
	CouponTypeFreeShipping = "free_shipping"
)

// 优惠券状态常量
const (
	CouponStatusActive   = "active"
	CouponStatusInactive = "inactive"
	CouponStatusExpired  = "expired"
)

// 库存变动原因常量
const (
	StockReasonSale       = "sale"
	StockReasonRefund     = "refund"
	StockReasonRestock    = "restock"
	StockReasonAdjustment = "adjustment"
)

// 用户角色常量
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 文章状态常量
const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
)

// 队列常量
const (
	QueueDefault = "default"
)

// 异步任务类型常量
const (
	TaskOrderTimeoutCancel = "order:timeout_cancel"
	TaskAuditEvent         = "audit:event"
)

// 审计事件类型常量
const (
	AuditEventCouponApplied   = "coupon_applied"
	AuditEventPaymentRefunded = "payment_refunded"
	AuditEventOrderRefunded   = "order_refunded"
	AuditEventOrderCanceled   = "order_canceled"
	AuditEventStatusChanged   = "order_status_changed"
)
