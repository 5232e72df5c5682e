package payment

import (
	"destiny_billing/internal/domain/payment/handler"
	"destiny_billing/internal/domain/payment/repository"
	"destiny_billing/internal/domain/payment/service"
	"destiny_billing/internal/pkg/middleware"
	"destiny_billing/internal/pkg/registry"
)

// PaymentModule wires the payment confirmation endpoint.
type PaymentModule struct{}

func init() {
	registry.Register(&PaymentModule{})
}

func (m *PaymentModule) Name() string {
	return "payment"
}

func (m *PaymentModule) Priority() int {
	return 10
}

func (m *PaymentModule) Init(ctx *registry.ModuleContext) error {
	repo := repository.NewPaymentRepository(ctx.DB)
	svc := service.NewPaymentService(repo, ctx.Gateway)
	h := handler.NewPaymentHandler(svc)

	ctx.Router.POST("/confirm-payment", middleware.AuthMiddleware(ctx.Cfg.Auth.JWTSecret), h.ConfirmPayment)

	return nil
}
