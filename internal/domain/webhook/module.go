package webhook

import (
	paymentRepo "destiny_billing/internal/domain/payment/repository"
	subRepo "destiny_billing/internal/domain/subscription/repository"
	"destiny_billing/internal/domain/webhook/handler"
	"destiny_billing/internal/domain/webhook/repository"
	"destiny_billing/internal/domain/webhook/service"
	"destiny_billing/internal/pkg/registry"
)

// WebhookModule wires the gateway webhook ingestion endpoint.
type WebhookModule struct{}

func init() {
	registry.Register(&WebhookModule{})
}

func (m *WebhookModule) Name() string {
	return "webhook"
}

func (m *WebhookModule) Priority() int {
	return 30
}

func (m *WebhookModule) Init(ctx *registry.ModuleContext) error {
	events := repository.NewWebhookRepository(ctx.DB)
	payments := paymentRepo.NewPaymentRepository(ctx.DB)
	subs := subRepo.NewSubscriptionRepository(ctx.DB)

	svc := service.NewWebhookService(ctx.Cfg.Toss.WebhookSecret, events, payments, subs)
	h := handler.NewWebhookHandler(svc)

	// Signed by the gateway, not by user tokens; no auth middleware.
	ctx.Router.POST("/webhook", h.Receive)

	return nil
}
