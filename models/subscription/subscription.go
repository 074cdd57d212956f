package subscription

import (
	"time"

	"travel-assistant/models/user"
)

// Plan names known to the payment provider.
type Plan string

const (
	PlanFree    Plan = "free"
	PlanPremium Plan = "premium"
)

// Status of a subscription as last reported by the provider.
type Status string

const (
	StatusActive   Status = "active"
	StatusPending  Status = "pending"
	StatusPastDue  Status = "past_due"
	StatusCanceled Status = "canceled"
)

// Subscription tracks a user's paid plan. At most one row per user; absence
// of a row means the free plan.
type Subscription struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	UserID uint      `gorm:"not null;unique" json:"user_id"`
	User   user.User `gorm:"foreignKey:UserID" json:"-"`

	Plan   Plan   `gorm:"type:varchar(20);not null;default:free" json:"plan"`
	Status Status `gorm:"type:varchar(20);not null;default:pending" json:"status"`

	ProviderCustomerID     string     `gorm:"type:varchar(255)" json:"provider_customer_id,omitempty"`
	ProviderSubscriptionID string     `gorm:"type:varchar(255)" json:"provider_subscription_id,omitempty"`
	CurrentPeriodEnd       *time.Time `json:"current_period_end,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsPremium reports whether the subscription grants premium features now.
func (s *Subscription) IsPremium() bool {
	if s.Plan != PlanPremium || s.Status != StatusActive {
		return false
	}
	if s.CurrentPeriodEnd != nil && time.Now().After(*s.CurrentPeriodEnd) {
		return false
	}
	return true
}
