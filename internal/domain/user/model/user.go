package model

import "time"

// User is the slice of the users table this service touches: a denormalized
// cache of the active subscription. The subscriptions table stays canonical.
type User struct {
	ID                    string     `gorm:"primaryKey;type:uuid" json:"id"`
	SubscriptionTier      string     `json:"subscriptionTier"`
	SubscriptionStatus    string     `json:"subscriptionStatus"`
	BillingKey            string     `json:"billingKey"`
	SubscriptionStartedAt *time.Time `json:"subscriptionStartedAt,omitempty"`
	SubscriptionExpiresAt *time.Time `json:"subscriptionExpiresAt,omitempty"`
	CreatedAt             time.Time  `json:"createdAt"`
	UpdatedAt             time.Time  `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}
