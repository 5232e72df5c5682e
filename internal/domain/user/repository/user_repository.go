package repository

import (
	"time"

	"destiny_billing/internal/domain/user/model"

	"gorm.io/gorm"
)

// UserRepository updates the user projection of the active subscription.
type UserRepository interface {
	GetByID(id string) (*model.User, error)
	// SetSubscription caches a freshly created subscription on the user row.
	SetSubscription(userID, tier, status, billingKey string, startedAt, expiresAt time.Time) error
	// SetSubscriptionExpiry advances the cached expiry after a billing cycle.
	SetSubscriptionExpiry(userID string, expiresAt time.Time) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(id string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) SetSubscription(userID, tier, status, billingKey string, startedAt, expiresAt time.Time) error {
	return r.db.Model(&model.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"subscription_tier":       tier,
		"subscription_status":     status,
		"billing_key":             billingKey,
		"subscription_started_at": startedAt,
		"subscription_expires_at": expiresAt,
	}).Error
}

func (r *userRepository) SetSubscriptionExpiry(userID string, expiresAt time.Time) error {
	return r.db.Model(&model.User{}).
		Where("id = ?", userID).
		Update("subscription_expires_at", expiresAt).Error
}
