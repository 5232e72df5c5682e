package handler

import (
	"net/http"

	"destiny_billing/internal/domain/subscription/service"
	"destiny_billing/internal/pkg/middleware"
	"destiny_billing/pkg/response"

	"github.com/gin-gonic/gin"
)

type SubscriptionHandler struct {
	service service.SubscriptionService
	billing service.BillingService
}

func NewSubscriptionHandler(s service.SubscriptionService, b service.BillingService) *SubscriptionHandler {
	return &SubscriptionHandler{service: s, billing: b}
}

type CreateSubscriptionInput struct {
	PaymentKey  string `json:"paymentKey" binding:"required"`
	CustomerKey string `json:"customerKey" binding:"required"`
	Tier        string `json:"tier" binding:"required,oneof=premium pro"`
	ProductID   string `json:"productId" binding:"required"`
}

// CreateSubscription issues a billing key from the first payment and stores
// the subscription.
func (h *SubscriptionHandler) CreateSubscription(c *gin.Context) {
	var input CreateSubscriptionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Fail(c, http.StatusBadRequest, err)
		return
	}

	userID := middleware.UserID(c)
	sub, nextBillingDate, err := h.service.Create(c.Request.Context(), userID, input.PaymentKey, input.CustomerKey, input.Tier, input.ProductID)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, err)
		return
	}

	response.OK(c, gin.H{
		"subscription":    sub,
		"nextBillingDate": nextBillingDate,
	})
}

// ProcessBilling runs the daily billing cycle. Invoked by the scheduler, not
// end users; takes no body.
func (h *SubscriptionHandler) ProcessBilling(c *gin.Context) {
	summary, err := h.billing.Run(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, err)
		return
	}

	if summary.Processed == 0 {
		response.OK(c, gin.H{
			"message":   "no subscriptions due today",
			"processed": 0,
		})
		return
	}

	response.OK(c, gin.H{
		"processed": summary.Processed,
		"results":   summary.Results,
	})
}
