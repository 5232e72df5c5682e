package service

import (
	"context"
	"fmt"
	"time"

	paymentModel "destiny_billing/internal/domain/payment/model"
	paymentRepo "destiny_billing/internal/domain/payment/repository"
	"destiny_billing/internal/domain/subscription/model"
	"destiny_billing/internal/domain/subscription/repository"
	userRepo "destiny_billing/internal/domain/user/repository"
	"destiny_billing/internal/gateway/toss"
	"destiny_billing/pkg/apperr"
	"destiny_billing/pkg/logger"
	"destiny_billing/pkg/metrics"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	billingLockKey = "billing:run_lock"
	billingLockTTL = 10 * time.Minute
)

// ChargeGateway is the slice of the payment gateway the billing run needs.
type ChargeGateway interface {
	ChargeBillingKey(ctx context.Context, billingKey string, req toss.ChargeRequest) (*toss.Payment, error)
}

// Outcome is one subscription's result within a billing run.
type Outcome struct {
	SubscriptionID  string     `json:"subscription_id"`
	UserID          string     `json:"user_id"`
	Status          string     `json:"status"`
	Amount          int64      `json:"amount,omitempty"`
	NextBillingDate *time.Time `json:"next_billing_date,omitempty"`
	Error           string     `json:"error,omitempty"`
}

const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
)

// Summary is the billing run report returned to the trigger.
type Summary struct {
	Processed int       `json:"processed"`
	Results   []Outcome `json:"results"`
}

// BillingService runs the daily recurring billing cycle.
type BillingService interface {
	Run(ctx context.Context) (*Summary, error)
}

type billingService struct {
	subs     repository.SubscriptionRepository
	payments paymentRepo.PaymentRepository
	users    userRepo.UserRepository
	gateway  ChargeGateway
	// locker guards against overlapping runs; nil disables the lock (tests).
	locker *redis.Client
	now    func() time.Time
}

func NewBillingService(
	subs repository.SubscriptionRepository,
	payments paymentRepo.PaymentRepository,
	users userRepo.UserRepository,
	gateway ChargeGateway,
	locker *redis.Client,
) BillingService {
	return &billingService{
		subs:     subs,
		payments: payments,
		users:    users,
		gateway:  gateway,
		locker:   locker,
		now:      time.Now,
	}
}

// Run charges every ACTIVE subscription due today, strictly one at a time.
// Each subscription's errors are recorded in its own outcome; a failure
// never stops the remaining subscriptions from being attempted.
func (s *billingService) Run(ctx context.Context) (*Summary, error) {
	if s.locker != nil {
		ok, err := s.locker.SetNX(ctx, billingLockKey, 1, billingLockTTL).Result()
		if err != nil {
			return nil, apperr.Wrap(apperr.Persistence, "failed to acquire billing lock", err)
		}
		if !ok {
			return nil, apperr.New(apperr.Conflict, "billing run already in progress")
		}
		defer s.locker.Del(ctx, billingLockKey)
	}

	// "Today" is fixed once at workflow start; the due query uses an
	// inclusive end-of-day bound so boundary dates are picked up.
	now := s.now()
	endOfDay := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())

	due, err := s.subs.DueBefore(endOfDay)
	if err != nil {
		return nil, apperr.Wrap(apperr.Persistence, "failed to query due subscriptions", err)
	}

	logger.L().Info("billing run started",
		zap.String("date", now.Format("2006-01-02")),
		zap.Int("due", len(due)),
	)

	results := make([]Outcome, 0, len(due))
	for _, sub := range due {
		results = append(results, s.processOne(ctx, sub, now))
	}

	logger.L().Info("billing run finished", zap.Int("processed", len(due)))

	return &Summary{Processed: len(due), Results: results}, nil
}

// processOne charges a single subscription and records the outcome. All of
// its errors end up in the returned Outcome, never in an error value.
func (s *billingService) processOne(ctx context.Context, sub model.Subscription, today time.Time) Outcome {
	orderID := fmt.Sprintf("sub_%s_%d", sub.ID, s.now().UnixMilli())
	orderName := fmt.Sprintf("%s subscription - %s", sub.Tier, today.Format("2006-01-02"))

	payment, err := s.gateway.ChargeBillingKey(ctx, sub.BillingKey, toss.ChargeRequest{
		CustomerKey: sub.CustomerKey,
		Amount:      sub.Amount,
		OrderID:     orderID,
		OrderName:   orderName,
	})
	if err != nil {
		return s.fail(sub, today, err)
	}

	order := &paymentModel.Payment{
		UserID:        sub.UserID,
		ProductID:     sub.ProductID,
		OrderID:       orderID,
		OrderName:     orderName,
		PaymentKey:    payment.PaymentKey,
		Amount:        sub.Amount,
		PaymentMethod: payment.Method,
		PaymentStatus: paymentModel.StatusDone,
		ApprovedAt:    payment.ApprovedAt,
		ReceiptURL:    payment.ReceiptURL(),
	}
	if err := s.payments.Create(order); err != nil {
		return s.fail(sub, today, err)
	}

	if err := s.subs.RecordPayment(&model.SubscriptionPayment{
		SubscriptionID: sub.ID,
		PaymentID:      &order.ID,
		BillingDate:    today,
		Amount:         sub.Amount,
		Status:         model.PaymentSuccess,
	}); err != nil {
		logger.L().Error("failed to record successful billing attempt",
			zap.String("subscription_id", sub.ID),
			zap.Error(err),
		)
	}

	// Advance by exactly one calendar month from the scheduled date, not
	// from today, so the billing anchor day is preserved.
	next := sub.NextBillingDate.AddDate(0, 1, 0)
	if err := s.subs.AdvancePeriod(sub.ID, sub.CurrentPeriodEnd, next, next); err != nil {
		logger.L().Error("failed to advance subscription period",
			zap.String("subscription_id", sub.ID),
			zap.Error(err),
		)
	}

	if err := s.users.SetSubscriptionExpiry(sub.UserID, next); err != nil {
		logger.L().Warn("failed to update user subscription expiry",
			zap.String("user_id", sub.UserID),
			zap.Error(err),
		)
	}

	metrics.BillingCharges.WithLabelValues(OutcomeSuccess).Inc()

	return Outcome{
		SubscriptionID:  sub.ID,
		UserID:          sub.UserID,
		Status:          OutcomeSuccess,
		Amount:          sub.Amount,
		NextBillingDate: &next,
	}
}

// fail logs a FAILED attempt and leaves the subscription untouched: it stays
// ACTIVE with its billing date unchanged and is retried on the next run.
func (s *billingService) fail(sub model.Subscription, today time.Time, cause error) Outcome {
	logger.L().Error("billing charge failed",
		zap.String("subscription_id", sub.ID),
		zap.Error(cause),
	)

	if err := s.subs.RecordPayment(&model.SubscriptionPayment{
		SubscriptionID: sub.ID,
		BillingDate:    today,
		Amount:         sub.Amount,
		Status:         model.PaymentFailed,
	}); err != nil {
		logger.L().Error("failed to record failed billing attempt",
			zap.String("subscription_id", sub.ID),
			zap.Error(err),
		)
	}

	metrics.BillingCharges.WithLabelValues(OutcomeFailed).Inc()

	return Outcome{
		SubscriptionID: sub.ID,
		UserID:         sub.UserID,
		Status:         OutcomeFailed,
		Error:          cause.Error(),
	}
}
