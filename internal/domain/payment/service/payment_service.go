package service

import (
	"context"
	"errors"

	"destiny_billing/internal/domain/payment/model"
	"destiny_billing/internal/domain/payment/repository"
	"destiny_billing/internal/gateway/toss"
	"destiny_billing/pkg/apperr"
	"destiny_billing/pkg/metrics"

	"gorm.io/gorm"
)

// ConfirmGateway is the slice of the payment gateway this service needs.
type ConfirmGateway interface {
	ConfirmPayment(ctx context.Context, paymentKey, orderID string, amount int64) (*toss.Payment, error)
}

// PaymentService handles caller-driven payment confirmation.
type PaymentService interface {
	Confirm(ctx context.Context, paymentKey, orderID string, amount int64) (*model.Payment, error)
}

type paymentService struct {
	repo    repository.PaymentRepository
	gateway ConfirmGateway
}

func NewPaymentService(repo repository.PaymentRepository, gateway ConfirmGateway) PaymentService {
	return &paymentService{repo: repo, gateway: gateway}
}

// Confirm validates the stored order against the request, approves the
// payment at the gateway and records the result. The stored-amount and
// already-DONE guards run before any gateway call, which makes retries of a
// confirmed payment safe.
func (s *paymentService) Confirm(ctx context.Context, paymentKey, orderID string, amount int64) (*model.Payment, error) {
	stored, err := s.repo.GetByOrderID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.Validation, "order not found")
		}
		return nil, apperr.Wrap(apperr.Persistence, "failed to load order", err)
	}

	if stored.Amount != amount {
		return nil, apperr.Newf(apperr.Conflict, "payment amount mismatch: requested=%d stored=%d", amount, stored.Amount)
	}
	if stored.PaymentStatus == model.StatusDone {
		return nil, apperr.New(apperr.Conflict, "payment already confirmed")
	}

	payment, err := s.gateway.ConfirmPayment(ctx, paymentKey, orderID, amount)
	if err != nil {
		metrics.PaymentConfirmations.WithLabelValues("rejected").Inc()
		return nil, apperr.Wrap(apperr.Gateway, "payment confirmation rejected: "+err.Error(), err)
	}

	updated, err := s.repo.Confirm(orderID, payment.PaymentKey, payment.Method, payment.ApprovedAt, payment.ReceiptURL())
	if err != nil {
		return nil, apperr.Wrap(apperr.Persistence, "failed to save confirmed payment", err)
	}

	metrics.PaymentConfirmations.WithLabelValues("confirmed").Inc()
	return updated, nil
}
