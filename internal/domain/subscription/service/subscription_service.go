package service

import (
	"context"
	"time"

	"destiny_billing/internal/domain/subscription/model"
	"destiny_billing/internal/domain/subscription/repository"
	userRepo "destiny_billing/internal/domain/user/repository"
	"destiny_billing/internal/gateway/toss"
	"destiny_billing/pkg/apperr"
	"destiny_billing/pkg/logger"

	"go.uber.org/zap"
)

// tierPrices is the fixed monthly price table in KRW. Tiers outside the
// table are rejected rather than silently priced.
var tierPrices = map[string]int64{
	model.TierPremium: 9900,
	model.TierPro:     19900,
}

// IssueGateway is the slice of the payment gateway subscription creation needs.
type IssueGateway interface {
	IssueBillingKey(ctx context.Context, authKey, customerKey string) (*toss.BillingAuth, error)
}

// SubscriptionService creates subscriptions after the first successful payment.
type SubscriptionService interface {
	Create(ctx context.Context, userID, paymentKey, customerKey, tier, productID string) (*model.Subscription, time.Time, error)
}

type subscriptionService struct {
	repo    repository.SubscriptionRepository
	users   userRepo.UserRepository
	gateway IssueGateway
	now     func() time.Time
}

func NewSubscriptionService(repo repository.SubscriptionRepository, users userRepo.UserRepository, gateway IssueGateway) SubscriptionService {
	return &subscriptionService{
		repo:    repo,
		users:   users,
		gateway: gateway,
		now:     time.Now,
	}
}

// Create exchanges the first payment's key for a billing key, stores the
// ACTIVE subscription and caches it on the user row. The user update is best
// effort: the subscription row is canonical, so a projection failure is
// logged and the request still succeeds.
func (s *subscriptionService) Create(ctx context.Context, userID, paymentKey, customerKey, tier, productID string) (*model.Subscription, time.Time, error) {
	amount, ok := tierPrices[tier]
	if !ok {
		return nil, time.Time{}, apperr.Newf(apperr.Validation, "unknown subscription tier: %s", tier)
	}

	auth, err := s.gateway.IssueBillingKey(ctx, paymentKey, customerKey)
	if err != nil {
		return nil, time.Time{}, apperr.Wrap(apperr.Gateway, "billing key issuance failed: "+err.Error(), err)
	}

	now := s.now()
	periodEnd := now.AddDate(0, 1, 0)

	sub := &model.Subscription{
		UserID:             userID,
		ProductID:          productID,
		BillingKey:         auth.BillingKey,
		CustomerKey:        customerKey,
		Tier:               tier,
		Status:             model.StatusActive,
		Amount:             amount,
		BillingCycle:       model.CycleMonthly,
		StartedAt:          now,
		CurrentPeriodStart: now,
		CurrentPeriodEnd:   periodEnd,
		NextBillingDate:    periodEnd,
	}
	if err := s.repo.Create(sub); err != nil {
		return nil, time.Time{}, apperr.Wrap(apperr.Persistence, "failed to create subscription", err)
	}

	if err := s.users.SetSubscription(userID, tier, "active", auth.BillingKey, now, periodEnd); err != nil {
		logger.L().Warn("failed to update user subscription projection",
			zap.String("user_id", userID),
			zap.String("subscription_id", sub.ID),
			zap.Error(err),
		)
	}

	return sub, periodEnd, nil
}
