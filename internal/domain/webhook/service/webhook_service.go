package service

import (
	"encoding/json"
	"time"

	paymentModel "destiny_billing/internal/domain/payment/model"
	paymentRepo "destiny_billing/internal/domain/payment/repository"
	subRepo "destiny_billing/internal/domain/subscription/repository"
	"destiny_billing/internal/domain/webhook/model"
	"destiny_billing/internal/domain/webhook/repository"
	"destiny_billing/internal/gateway/toss"
	"destiny_billing/pkg/apperr"
	"destiny_billing/pkg/logger"
	"destiny_billing/pkg/metrics"

	"go.uber.org/zap"
)

// WebhookService verifies, persists and dispatches inbound gateway events.
type WebhookService interface {
	// Handle processes one raw webhook delivery. The returned error is for
	// logging only; the HTTP layer answers 200 either way.
	Handle(rawBody []byte, signature string) error
}

type webhookService struct {
	secret   string
	events   repository.WebhookRepository
	payments paymentRepo.PaymentRepository
	subs     subRepo.SubscriptionRepository
	now      func() time.Time
}

func NewWebhookService(secret string, events repository.WebhookRepository, payments paymentRepo.PaymentRepository, subs subRepo.SubscriptionRepository) WebhookService {
	return &webhookService{
		secret:   secret,
		events:   events,
		payments: payments,
		subs:     subs,
		now:      time.Now,
	}
}

// Handle verifies the signature over the exact received bytes, logs the
// event, dispatches on its type and marks it processed. Verification is
// mandatory: a missing or wrong signature rejects the delivery.
func (s *webhookService) Handle(rawBody []byte, signature string) error {
	if !toss.VerifySignature(rawBody, signature, s.secret) {
		return apperr.New(apperr.Auth, "invalid webhook signature")
	}

	var envelope model.Envelope
	if err := json.Unmarshal(rawBody, &envelope); err != nil {
		return apperr.Wrap(apperr.Validation, "malformed webhook payload", err)
	}

	metrics.WebhookEvents.WithLabelValues(envelope.EventType).Inc()

	event := &model.Event{
		EventType:  envelope.EventType,
		PaymentKey: paymentKeyOf(envelope.Data),
		Payload:    json.RawMessage(rawBody),
	}
	if err := s.events.Create(event); err != nil {
		return apperr.Wrap(apperr.Persistence, "failed to persist webhook event", err)
	}

	if err := s.dispatch(envelope); err != nil {
		return err
	}

	if err := s.events.MarkProcessed(event.ID, s.now()); err != nil {
		return apperr.Wrap(apperr.Persistence, "failed to mark webhook event processed", err)
	}

	return nil
}

// dispatch decodes the payload for the event type and applies its update.
func (s *webhookService) dispatch(envelope model.Envelope) error {
	switch envelope.EventType {
	case model.EventPaymentStatusChanged:
		var data model.PaymentStatusData
		if err := json.Unmarshal(envelope.Data, &data); err != nil {
			return apperr.Wrap(apperr.Validation, "malformed payment status payload", err)
		}
		return s.handlePaymentStatusChanged(data)

	case model.EventDepositCallback:
		var data model.DepositData
		if err := json.Unmarshal(envelope.Data, &data); err != nil {
			return apperr.Wrap(apperr.Validation, "malformed deposit payload", err)
		}
		return s.handleDepositCallback(data)

	case model.EventCancelStatusChanged:
		var data model.CancelData
		if err := json.Unmarshal(envelope.Data, &data); err != nil {
			return apperr.Wrap(apperr.Validation, "malformed cancel payload", err)
		}
		return s.handleCancelStatusChanged(data)

	case model.EventBillingDeleted:
		var data model.BillingDeletedData
		if err := json.Unmarshal(envelope.Data, &data); err != nil {
			return apperr.Wrap(apperr.Validation, "malformed billing deleted payload", err)
		}
		return s.handleBillingDeleted(data)

	default:
		logger.L().Info("unhandled webhook event type", zap.String("event_type", envelope.EventType))
		return nil
	}
}

func (s *webhookService) handlePaymentStatusChanged(data model.PaymentStatusData) error {
	if err := s.payments.UpdateStatusByPaymentKey(data.PaymentKey, data.Status); err != nil {
		return apperr.Wrap(apperr.Persistence, "failed to update payment status", err)
	}
	return nil
}

func (s *webhookService) handleDepositCallback(data model.DepositData) error {
	// Only completed deposits flip the payment; other deposit states are
	// informational.
	if data.Status != paymentModel.StatusDone {
		return nil
	}
	if err := s.payments.MarkDepositDone(data.PaymentKey, data.ApprovedAt); err != nil {
		return apperr.Wrap(apperr.Persistence, "failed to record deposit", err)
	}
	return nil
}

func (s *webhookService) handleCancelStatusChanged(data model.CancelData) error {
	var metadata json.RawMessage
	if data.Cancels != nil {
		blob, err := json.Marshal(map[string]json.RawMessage{"cancels": data.Cancels})
		if err == nil {
			metadata = blob
		}
	}
	if err := s.payments.MarkCanceled(data.PaymentKey, s.now(), metadata); err != nil {
		return apperr.Wrap(apperr.Persistence, "failed to record cancellation", err)
	}
	return nil
}

func (s *webhookService) handleBillingDeleted(data model.BillingDeletedData) error {
	if err := s.subs.CancelByBillingKey(data.BillingKey, s.now()); err != nil {
		return apperr.Wrap(apperr.Persistence, "failed to cancel subscription", err)
	}
	return nil
}

// paymentKeyOf pulls the payment key out of an undecoded payload for the
// audit log row; not every event type carries one.
func paymentKeyOf(data json.RawMessage) string {
	var probe struct {
		PaymentKey string `json:"paymentKey"`
	}
	_ = json.Unmarshal(data, &probe)
	return probe.PaymentKey
}
