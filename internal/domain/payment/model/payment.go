package model

import (
	"encoding/json"
	"time"

	baseModel "destiny_billing/pkg/model"
)

// Payment is one payment order. Rows are created at checkout initiation with
// status PENDING and flipped to DONE/CANCELED by the confirmation handler,
// the billing workflow or webhook events. Amount never changes once DONE.
type Payment struct {
	baseModel.BaseModel
	UserID        string          `gorm:"type:uuid;index" json:"userId"`
	ProductID     string          `json:"productId"`
	OrderID       string          `gorm:"unique;not null" json:"orderId"`
	OrderName     string          `json:"orderName"`
	PaymentKey    string          `gorm:"index" json:"paymentKey"`
	Amount        int64           `json:"amount"`
	PaymentMethod string          `json:"paymentMethod"`
	PaymentStatus string          `gorm:"default:'PENDING'" json:"paymentStatus"`
	ApprovedAt    *time.Time      `json:"approvedAt,omitempty"`
	CanceledAt    *time.Time      `json:"canceledAt,omitempty"`
	ReceiptURL    string          `json:"receiptUrl"`
	Metadata      json.RawMessage `gorm:"type:jsonb" json:"metadata,omitempty"`
}

func (Payment) TableName() string {
	return "payments"
}

const (
	StatusPending  = "PENDING"
	StatusDone     = "DONE"
	StatusCanceled = "CANCELED"
)
