package model

import (
	"encoding/json"
	"time"

	baseModel "destiny_billing/pkg/model"
)

// Event is the audit log row for a received gateway webhook. Events are
// stored unprocessed on receipt and flipped to processed after dispatch; the
// log is not deduplicated against gateway redelivery.
type Event struct {
	baseModel.BaseModel
	EventType   string          `gorm:"index" json:"eventType"`
	PaymentKey  string          `gorm:"index" json:"paymentKey"`
	Payload     json.RawMessage `gorm:"type:jsonb" json:"payload"`
	Processed   bool            `gorm:"default:false" json:"processed"`
	ProcessedAt *time.Time      `json:"processedAt,omitempty"`
}

func (Event) TableName() string {
	return "webhook_events"
}

// Gateway event types this service handles.
const (
	EventPaymentStatusChanged = "PAYMENT_STATUS_CHANGED"
	EventDepositCallback      = "DEPOSIT_CALLBACK"
	EventCancelStatusChanged  = "CANCEL_STATUS_CHANGED"
	EventBillingDeleted       = "BILLING_DELETED"
)

// Envelope is the gateway's generic event wrapper. Data stays raw until the
// event type selects the concrete payload to decode into.
type Envelope struct {
	EventType string          `json:"eventType"`
	CreatedAt string          `json:"createdAt"`
	Data      json.RawMessage `json:"data"`
}

// PaymentStatusData is the payload of PAYMENT_STATUS_CHANGED.
type PaymentStatusData struct {
	PaymentKey string `json:"paymentKey"`
	Status     string `json:"status"`
}

// DepositData is the payload of DEPOSIT_CALLBACK.
type DepositData struct {
	PaymentKey string     `json:"paymentKey"`
	Status     string     `json:"status"`
	ApprovedAt *time.Time `json:"approvedAt"`
}

// CancelData is the payload of CANCEL_STATUS_CHANGED. Cancels keeps the
// gateway's cancellation detail verbatim for the payment's metadata column.
type CancelData struct {
	PaymentKey string          `json:"paymentKey"`
	Cancels    json.RawMessage `json:"cancels"`
}

// BillingDeletedData is the payload of BILLING_DELETED.
type BillingDeletedData struct {
	BillingKey string `json:"billingKey"`
}
