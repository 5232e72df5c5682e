package repository

import (
	"encoding/json"
	"time"

	"destiny_billing/internal/domain/payment/model"

	"gorm.io/gorm"
)

// PaymentRepository is the typed access layer for the payments table.
type PaymentRepository interface {
	Create(payment *model.Payment) error
	GetByOrderID(orderID string) (*model.Payment, error)
	// Confirm flips the order to DONE with the gateway's approval details and
	// returns the updated row.
	Confirm(orderID, paymentKey, method string, approvedAt *time.Time, receiptURL string) (*model.Payment, error)
	UpdateStatusByPaymentKey(paymentKey, status string) error
	// MarkDepositDone records a completed virtual-account deposit.
	MarkDepositDone(paymentKey string, approvedAt *time.Time) error
	// MarkCanceled records a cancellation with the gateway's cancel detail.
	MarkCanceled(paymentKey string, canceledAt time.Time, metadata json.RawMessage) error
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(payment *model.Payment) error {
	return r.db.Create(payment).Error
}

func (r *paymentRepository) GetByOrderID(orderID string) (*model.Payment, error) {
	var payment model.Payment
	if err := r.db.Where("order_id = ?", orderID).First(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) Confirm(orderID, paymentKey, method string, approvedAt *time.Time, receiptURL string) (*model.Payment, error) {
	updates := map[string]interface{}{
		"payment_key":    paymentKey,
		"payment_status": model.StatusDone,
		"payment_method": method,
		"receipt_url":    receiptURL,
	}
	if approvedAt != nil {
		updates["approved_at"] = approvedAt
	}

	if err := r.db.Model(&model.Payment{}).Where("order_id = ?", orderID).Updates(updates).Error; err != nil {
		return nil, err
	}
	return r.GetByOrderID(orderID)
}

func (r *paymentRepository) UpdateStatusByPaymentKey(paymentKey, status string) error {
	return r.db.Model(&model.Payment{}).
		Where("payment_key = ?", paymentKey).
		Update("payment_status", status).Error
}

func (r *paymentRepository) MarkDepositDone(paymentKey string, approvedAt *time.Time) error {
	updates := map[string]interface{}{
		"payment_status": model.StatusDone,
	}
	if approvedAt != nil {
		updates["approved_at"] = approvedAt
	}
	return r.db.Model(&model.Payment{}).
		Where("payment_key = ?", paymentKey).
		Updates(updates).Error
}

func (r *paymentRepository) MarkCanceled(paymentKey string, canceledAt time.Time, metadata json.RawMessage) error {
	updates := map[string]interface{}{
		"payment_status": model.StatusCanceled,
		"canceled_at":    canceledAt,
	}
	if metadata != nil {
		updates["metadata"] = metadata
	}
	return r.db.Model(&model.Payment{}).
		Where("payment_key = ?", paymentKey).
		Updates(updates).Error
}
