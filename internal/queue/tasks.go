package queue

import (
	"encoding/json"

	"github.com/storefront-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderTimeoutCancel 超时取消任务
	TaskOrderTimeoutCancel = constants.TaskOrderTimeoutCancel
	// TaskAuditEvent 审计事件任务
	TaskAuditEvent = constants.TaskAuditEvent
)

// OrderTimeoutCancelPayload 超时取消任务载荷
type OrderTimeoutCancelPayload struct {
	OrderID uint `json:"order_id"`
}

// AuditEventPayload 审计事件任务载荷
type AuditEventPayload struct {
	Event     string `json:"event"`
	OrderID   uint   `json:"order_id,omitempty"`
	PaymentID uint   `json:"payment_id,omitempty"`
	CouponID  uint   `json:"coupon_id,omitempty"`
	ActorID   uint   `json:"actor_id,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// NewOrderTimeoutCancelTask 创建超时取消任务
func NewOrderTimeoutCancelTask(payload OrderTimeoutCancelPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderTimeoutCancel, body), nil
}

// NewAuditEventTask 创建审计事件任务
func NewAuditEventTask(payload AuditEventPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAuditEvent, body), nil
}
