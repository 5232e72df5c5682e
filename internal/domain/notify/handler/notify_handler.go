package handler

import (
	"net/http"

	"destiny_billing/internal/domain/notify/service"
	"destiny_billing/pkg/response"

	"github.com/gin-gonic/gin"
)

type NotifyHandler struct {
	dispatcher service.Dispatcher
}

func NewNotifyHandler(d service.Dispatcher) *NotifyHandler {
	return &NotifyHandler{dispatcher: d}
}

type UsageAlertInput struct {
	AlertType      string  `json:"alert_type" binding:"required"`
	ThresholdValue float64 `json:"threshold_value" binding:"required,gt=0"`
	CurrentValue   float64 `json:"current_value" binding:"min=0"`
	Message        string  `json:"message"`
}

// NotifyUsage fans a usage alert out to the configured chat-ops channels.
func (h *NotifyHandler) NotifyUsage(c *gin.Context) {
	var input UsageAlertInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Fail(c, http.StatusBadRequest, err)
		return
	}

	result := h.dispatcher.Send(c.Request.Context(), service.Alert{
		AlertType:      input.AlertType,
		ThresholdValue: input.ThresholdValue,
		CurrentValue:   input.CurrentValue,
		Message:        input.Message,
	})

	if result.Logged {
		response.OK(c, gin.H{
			"message": "alert logged (no notification channel configured)",
		})
		return
	}

	response.OK(c, gin.H{
		"message":  "alert sent",
		"channels": result,
	})
}
