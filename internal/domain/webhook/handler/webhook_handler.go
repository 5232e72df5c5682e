package handler

import (
	"io"
	"net/http"

	"destiny_billing/internal/domain/webhook/service"
	"destiny_billing/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SignatureHeader carries the hex HMAC-SHA256 of the raw body.
const SignatureHeader = "Toss-Signature"

type WebhookHandler struct {
	service service.WebhookService
}

func NewWebhookHandler(s service.WebhookService) *WebhookHandler {
	return &WebhookHandler{service: s}
}

// Receive ingests one gateway webhook delivery. The gateway redelivers on
// any non-2xx answer, so every failure is logged and flattened into a 200 to
// keep retries from re-triggering side effects.
func (h *WebhookHandler) Receive(c *gin.Context) {
	rawBody, err := io.ReadAll(c.Request.Body)
	if err != nil {
		logger.L().Error("failed to read webhook body", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"success": false, "error": "failed to read request body"})
		return
	}

	if err := h.service.Handle(rawBody, c.GetHeader(SignatureHeader)); err != nil {
		logger.L().Error("webhook processing failed", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
