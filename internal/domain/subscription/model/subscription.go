package model

import (
	"time"

	baseModel "destiny_billing/pkg/model"
)

// Subscription is a recurring billing agreement. Created together with the
// billing key on the first payment; the billing workflow advances its period
// each cycle. next_billing_date only ever moves forward, and CANCELED is
// terminal.
type Subscription struct {
	baseModel.BaseModel
	UserID             string     `gorm:"type:uuid;index" json:"userId"`
	ProductID          string     `json:"productId"`
	BillingKey         string     `gorm:"index" json:"billingKey"`
	CustomerKey        string     `json:"customerKey"`
	Tier               string     `json:"tier"`
	Status             string     `gorm:"default:'ACTIVE'" json:"status"`
	Amount             int64      `json:"amount"`
	BillingCycle       string     `gorm:"default:'monthly'" json:"billingCycle"`
	StartedAt          time.Time  `json:"startedAt"`
	CurrentPeriodStart time.Time  `json:"currentPeriodStart"`
	CurrentPeriodEnd   time.Time  `json:"currentPeriodEnd"`
	NextBillingDate    time.Time  `gorm:"index" json:"nextBillingDate"`
	CanceledAt         *time.Time `json:"canceledAt,omitempty"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

const (
	StatusActive   = "ACTIVE"
	StatusCanceled = "CANCELED"

	TierPremium = "premium"
	TierPro     = "pro"

	CycleMonthly = "monthly"
)

// SubscriptionPayment is the append-only log of billing attempts, one row
// per attempt, never mutated after insert. PaymentID links the payment row
// for successful charges and is nil for failures.
type SubscriptionPayment struct {
	baseModel.BaseModel
	SubscriptionID string    `gorm:"type:uuid;index" json:"subscriptionId"`
	PaymentID      *string   `gorm:"type:uuid" json:"paymentId,omitempty"`
	BillingDate    time.Time `json:"billingDate"`
	Amount         int64     `json:"amount"`
	Status         string    `json:"status"`
}

func (SubscriptionPayment) TableName() string {
	return "subscription_payments"
}

const (
	PaymentSuccess = "SUCCESS"
	PaymentFailed  = "FAILED"
)
