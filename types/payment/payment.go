package payment

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type UpgradePlanRequest struct {
	Plan string `json:"plan" validate:"required,oneof=premium"`
}

func (r *UpgradePlanRequest) Validate() error {
	return validate.Struct(r)
}

// WebhookEvent is the provider event envelope. Signature verification happens
// upstream of this service; only the fields we act on are modelled.
type WebhookEvent struct {
	ID   string `json:"id" validate:"required"`
	Type string `json:"type" validate:"required"`
	Data struct {
		CustomerID     string `json:"customer_id"`
		SubscriptionID string `json:"subscription_id"`
		UserID         uint   `json:"user_id"`
		PeriodEnd      int64  `json:"period_end"`
	} `json:"data"`
}

func (e *WebhookEvent) Validate() error {
	return validate.Struct(e)
}

type SubscriptionStatusResponse struct {
	Plan             string `json:"plan"`
	Status           string `json:"status"`
	CurrentPeriodEnd string `json:"current_period_end,omitempty"`
	IsPremium        bool   `json:"is_premium"`
}
