package subscription

import (
	paymentRepo "destiny_billing/internal/domain/payment/repository"
	"destiny_billing/internal/domain/subscription/handler"
	"destiny_billing/internal/domain/subscription/repository"
	"destiny_billing/internal/domain/subscription/service"
	userRepo "destiny_billing/internal/domain/user/repository"
	"destiny_billing/internal/pkg/middleware"
	"destiny_billing/internal/pkg/registry"
)

// SubscriptionModule wires subscription creation and the billing workflow.
type SubscriptionModule struct{}

func init() {
	registry.Register(&SubscriptionModule{})
}

func (m *SubscriptionModule) Name() string {
	return "subscription"
}

func (m *SubscriptionModule) Priority() int {
	// Depends on the payment and user repositories.
	return 20
}

func (m *SubscriptionModule) Init(ctx *registry.ModuleContext) error {
	subs := repository.NewSubscriptionRepository(ctx.DB)
	payments := paymentRepo.NewPaymentRepository(ctx.DB)
	users := userRepo.NewUserRepository(ctx.DB)

	svc := service.NewSubscriptionService(subs, users, ctx.Gateway)
	billing := service.NewBillingService(subs, payments, users, ctx.Gateway, ctx.Redis)

	h := handler.NewSubscriptionHandler(svc, billing)

	ctx.Router.POST("/create-subscription", middleware.AuthMiddleware(ctx.Cfg.Auth.JWTSecret), h.CreateSubscription)
	ctx.Router.POST("/process-billing", h.ProcessBilling)

	return nil
}
