package service

import (
	"context"
	"encoding/json"
	"time"

	paymentModel "destiny_billing/internal/domain/payment/model"
	"destiny_billing/internal/domain/subscription/model"
	userModel "destiny_billing/internal/domain/user/model"
	"destiny_billing/internal/gateway/toss"

	"github.com/stretchr/testify/mock"
)

// MockSubscriptionRepository is a mock of SubscriptionRepository.
type MockSubscriptionRepository struct {
	mock.Mock
}

func (m *MockSubscriptionRepository) Create(sub *model.Subscription) error {
	args := m.Called(sub)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) DueBefore(cutoff time.Time) ([]model.Subscription, error) {
	args := m.Called(cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) AdvancePeriod(id string, periodStart, periodEnd, nextBillingDate time.Time) error {
	args := m.Called(id, periodStart, periodEnd, nextBillingDate)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) CancelByBillingKey(billingKey string, canceledAt time.Time) error {
	args := m.Called(billingKey, canceledAt)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) RecordPayment(rec *model.SubscriptionPayment) error {
	args := m.Called(rec)
	return args.Error(0)
}

// MockPaymentRepository is a mock of the payment repository.
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(payment *paymentModel.Payment) error {
	args := m.Called(payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetByOrderID(orderID string) (*paymentModel.Payment, error) {
	args := m.Called(orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentModel.Payment), args.Error(1)
}

func (m *MockPaymentRepository) Confirm(orderID, paymentKey, method string, approvedAt *time.Time, receiptURL string) (*paymentModel.Payment, error) {
	args := m.Called(orderID, paymentKey, method, approvedAt, receiptURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentModel.Payment), args.Error(1)
}

func (m *MockPaymentRepository) UpdateStatusByPaymentKey(paymentKey, status string) error {
	args := m.Called(paymentKey, status)
	return args.Error(0)
}

func (m *MockPaymentRepository) MarkDepositDone(paymentKey string, approvedAt *time.Time) error {
	args := m.Called(paymentKey, approvedAt)
	return args.Error(0)
}

func (m *MockPaymentRepository) MarkCanceled(paymentKey string, canceledAt time.Time, metadata json.RawMessage) error {
	args := m.Called(paymentKey, canceledAt, metadata)
	return args.Error(0)
}

// MockUserRepository is a mock of the user projection repository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(id string) (*userModel.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userModel.User), args.Error(1)
}

func (m *MockUserRepository) SetSubscription(userID, tier, status, billingKey string, startedAt, expiresAt time.Time) error {
	args := m.Called(userID, tier, status, billingKey, startedAt, expiresAt)
	return args.Error(0)
}

func (m *MockUserRepository) SetSubscriptionExpiry(userID string, expiresAt time.Time) error {
	args := m.Called(userID, expiresAt)
	return args.Error(0)
}

// MockGateway mocks the payment gateway slices used by this package.
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) IssueBillingKey(ctx context.Context, authKey, customerKey string) (*toss.BillingAuth, error) {
	args := m.Called(ctx, authKey, customerKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*toss.BillingAuth), args.Error(1)
}

func (m *MockGateway) ChargeBillingKey(ctx context.Context, billingKey string, req toss.ChargeRequest) (*toss.Payment, error) {
	args := m.Called(ctx, billingKey, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*toss.Payment), args.Error(1)
}
