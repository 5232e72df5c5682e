package handler

import (
	"net/http"

	"destiny_billing/internal/domain/payment/service"
	"destiny_billing/pkg/response"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	service service.PaymentService
}

func NewPaymentHandler(s service.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: s}
}

type ConfirmPaymentInput struct {
	PaymentKey string `json:"paymentKey" binding:"required"`
	OrderID    string `json:"orderId" binding:"required"`
	Amount     int64  `json:"amount" binding:"required,gt=0"`
}

// ConfirmPayment approves a checkout the mobile client completed.
func (h *PaymentHandler) ConfirmPayment(c *gin.Context) {
	var input ConfirmPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Fail(c, http.StatusBadRequest, err)
		return
	}

	payment, err := h.service.Confirm(c.Request.Context(), input.PaymentKey, input.OrderID, input.Amount)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, err)
		return
	}

	response.OK(c, gin.H{
		"payment":    payment,
		"receiptUrl": payment.ReceiptURL,
	})
}
