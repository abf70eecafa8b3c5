package dto

const (
	PaymentEventActivated = "subscription.activated"
	PaymentEventUpdated   = "subscription.updated"
	PaymentEventCancelled = "subscription.cancelled"
)

// PaymentWebhookEvent - событие платежного провайдера (тело уже проверено по подписи)
type PaymentWebhookEvent struct {
	ID     string `json:"id" validate:"required,max=100"`
	Type   string `json:"type" validate:"required,oneof=subscription.activated subscription.updated subscription.cancelled"`
	UserID string `json:"user_id" validate:"required,max=36"`
	PlanID string `json:"plan_id" validate:"omitempty,max=32"`
	Status string `json:"status" validate:"omitempty,max=16"`
}
