package repository

import (
	"time"

	"destiny_billing/internal/domain/webhook/model"

	"gorm.io/gorm"
)

// WebhookRepository persists the webhook event audit log.
type WebhookRepository interface {
	Create(event *model.Event) error
	MarkProcessed(id string, processedAt time.Time) error
}

type webhookRepository struct {
	db *gorm.DB
}

func NewWebhookRepository(db *gorm.DB) WebhookRepository {
	return &webhookRepository{db: db}
}

func (r *webhookRepository) Create(event *model.Event) error {
	return r.db.Create(event).Error
}

func (r *webhookRepository) MarkProcessed(id string, processedAt time.Time) error {
	return r.db.Model(&model.Event{}).Where("id = ?", id).Updates(map[string]interface{}{
		"processed":    true,
		"processed_at": processedAt,
	}).Error
}
