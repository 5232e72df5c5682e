package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"destiny_billing/internal/domain/payment/model"
	"destiny_billing/internal/gateway/toss"
	"destiny_billing/pkg/apperr"
	baseModel "destiny_billing/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(payment *model.Payment) error {
	args := m.Called(payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetByOrderID(orderID string) (*model.Payment, error) {
	args := m.Called(orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payment), args.Error(1)
}

func (m *MockPaymentRepository) Confirm(orderID, paymentKey, method string, approvedAt *time.Time, receiptURL string) (*model.Payment, error) {
	args := m.Called(orderID, paymentKey, method, approvedAt, receiptURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payment), args.Error(1)
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

type MockConfirmGateway struct {
	mock.Mock
}

func (m *MockConfirmGateway) ConfirmPayment(ctx context.Context, paymentKey, orderID string, amount int64) (*toss.Payment, error) {
	args := m.Called(ctx, paymentKey, orderID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*toss.Payment), args.Error(1)
}

func pendingOrder(orderID string, amount int64) *model.Payment {
	return &model.Payment{
		BaseModel:     baseModel.BaseModel{ID: "pay-row-1"},
		UserID:        "user-1",
		OrderID:       orderID,
		OrderName:     "Destiny.OS premium",
		Amount:        amount,
		PaymentStatus: model.StatusPending,
	}
}

func TestPaymentService_Confirm(t *testing.T) {
	approvedAt := time.Date(2026, 3, 10, 9, 0, 1, 0, time.UTC)

	t.Run("confirms a pending order", func(t *testing.T) {
		repo := new(MockPaymentRepository)
		gateway := new(MockConfirmGateway)
		svc := NewPaymentService(repo, gateway)

		repo.On("GetByOrderID", "order_1").Return(pendingOrder("order_1", 9900), nil)
		gateway.On("ConfirmPayment", mock.Anything, "pay_key_1", "order_1", int64(9900)).
			Return(&toss.Payment{
				PaymentKey:  "pay_key_1",
				OrderID:     "order_1",
				Status:      "DONE",
				Method:      "카드",
				TotalAmount: 9900,
				ApprovedAt:  &approvedAt,
				Receipt:     &toss.Receipt{URL: "https://receipt/1"},
			}, nil)
		repo.On("Confirm", "order_1", "pay_key_1", "카드", &approvedAt, "https://receipt/1").
			Return(&model.Payment{
				OrderID:       "order_1",
				PaymentKey:    "pay_key_1",
				Amount:        9900,
				PaymentStatus: model.StatusDone,
				ApprovedAt:    &approvedAt,
				ReceiptURL:    "https://receipt/1",
			}, nil)

		payment, err := svc.Confirm(context.Background(), "pay_key_1", "order_1", 9900)

		assert.NoError(t, err)
		assert.Equal(t, model.StatusDone, payment.PaymentStatus)
		assert.Equal(t, "pay_key_1", payment.PaymentKey)
		repo.AssertExpectations(t)
		gateway.AssertExpectations(t)
	})

	t.Run("unknown order", func(t *testing.T) {
		repo := new(MockPaymentRepository)
		gateway := new(MockConfirmGateway)
		svc := NewPaymentService(repo, gateway)

		repo.On("GetByOrderID", "order_missing").Return(nil, gorm.ErrRecordNotFound)

		payment, err := svc.Confirm(context.Background(), "pay_key_1", "order_missing", 9900)

		assert.Nil(t, payment)
		assert.Equal(t, apperr.Validation, apperr.KindOf(err))
		gateway.AssertNotCalled(t, "ConfirmPayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("amount mismatch never reaches the gateway", func(t *testing.T) {
		repo := new(MockPaymentRepository)
		gateway := new(MockConfirmGateway)
		svc := NewPaymentService(repo, gateway)

		repo.On("GetByOrderID", "order_1").Return(pendingOrder("order_1", 9900), nil)

		payment, err := svc.Confirm(context.Background(), "pay_key_1", "order_1", 19900)

		assert.Nil(t, payment)
		assert.Equal(t, apperr.Conflict, apperr.KindOf(err))
		assert.Contains(t, err.Error(), "requested=19900 stored=9900")
		gateway.AssertNotCalled(t, "ConfirmPayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("double confirmation is rejected locally", func(t *testing.T) {
		repo := new(MockPaymentRepository)
		gateway := new(MockConfirmGateway)
		svc := NewPaymentService(repo, gateway)

		done := pendingOrder("order_1", 9900)
		done.PaymentStatus = model.StatusDone
		repo.On("GetByOrderID", "order_1").Return(done, nil)

		payment, err := svc.Confirm(context.Background(), "pay_key_1", "order_1", 9900)

		assert.Nil(t, payment)
		assert.Equal(t, apperr.Conflict, apperr.KindOf(err))
		assert.Contains(t, err.Error(), "already confirmed")
		gateway.AssertNotCalled(t, "ConfirmPayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("gateway rejection keeps the order pending", func(t *testing.T) {
		repo := new(MockPaymentRepository)
		gateway := new(MockConfirmGateway)
		svc := NewPaymentService(repo, gateway)

		repo.On("GetByOrderID", "order_1").Return(pendingOrder("order_1", 9900), nil)
		gateway.On("ConfirmPayment", mock.Anything, "pay_key_1", "order_1", int64(9900)).
			Return(nil, errors.New("ALREADY_PROCESSED_PAYMENT"))

		payment, err := svc.Confirm(context.Background(), "pay_key_1", "order_1", 9900)

		assert.Nil(t, payment)
		assert.Equal(t, apperr.Gateway, apperr.KindOf(err))
		assert.Contains(t, err.Error(), "ALREADY_PROCESSED_PAYMENT")
		repo.AssertNotCalled(t, "Confirm", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
