package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BillingCharges counts recurring charge attempts by outcome.
	BillingCharges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "billing_charges_total",
		Help: "Recurring billing charge attempts by outcome.",
	}, []string{"status"})

	// WebhookEvents counts received gateway webhook events by type.
	WebhookEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_events_total",
		Help: "Received payment gateway webhook events by type.",
	}, []string{"event_type"})

	// PaymentConfirmations counts confirmation requests by outcome.
	PaymentConfirmations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_confirmations_total",
		Help: "Payment confirmation requests by outcome.",
	}, []string{"status"})
)
