package repository

import (
	"time"

	"destiny_billing/internal/domain/subscription/model"

	"gorm.io/gorm"
)

// SubscriptionRepository is the typed access layer for subscriptions and
// their billing attempt log.
type SubscriptionRepository interface {
	Create(sub *model.Subscription) error
	// DueBefore lists ACTIVE subscriptions whose next billing date is at or
	// before the cutoff, in next-billing-date order.
	DueBefore(cutoff time.Time) ([]model.Subscription, error)
	// AdvancePeriod moves the billing window forward after a successful charge.
	AdvancePeriod(id string, periodStart, periodEnd, nextBillingDate time.Time) error
	// CancelByBillingKey terminates every subscription bound to a deleted
	// billing key.
	CancelByBillingKey(billingKey string, canceledAt time.Time) error
	RecordPayment(rec *model.SubscriptionPayment) error
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Create(sub *model.Subscription) error {
	return r.db.Create(sub).Error
}

func (r *subscriptionRepository) DueBefore(cutoff time.Time) ([]model.Subscription, error) {
	var subs []model.Subscription
	err := r.db.
		Where("status = ? AND next_billing_date <= ?", model.StatusActive, cutoff).
		Order("next_billing_date").
		Find(&subs).Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *subscriptionRepository) AdvancePeriod(id string, periodStart, periodEnd, nextBillingDate time.Time) error {
	return r.db.Model(&model.Subscription{}).Where("id = ?", id).Updates(map[string]interface{}{
		"current_period_start": periodStart,
		"current_period_end":   periodEnd,
		"next_billing_date":    nextBillingDate,
	}).Error
}

func (r *subscriptionRepository) CancelByBillingKey(billingKey string, canceledAt time.Time) error {
	return r.db.Model(&model.Subscription{}).
		Where("billing_key = ?", billingKey).
		Updates(map[string]interface{}{
			"status":      model.StatusCanceled,
			"canceled_at": canceledAt,
		}).Error
}

func (r *subscriptionRepository) RecordPayment(rec *model.SubscriptionPayment) error {
	return r.db.Create(rec).Error
}
