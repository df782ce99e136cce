package database

import (
	"context"

	"github.com/thereayou/messagings/internal/models"
	"gorm.io/gorm/clause"
)

func (d *Database) SaveMessage(ctx context.Context, message *models.Message) error {
	return d.db.WithContext(ctx).Omit(clause.Associations).Create(message).Error
}

func (d *Database) GetMessage(ctx context.Context, id uint) (*models.Message, error) {
	var message models.Message
	if err := d.db.WithContext(ctx).Preload("Author").First(&message, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

// GetMessagingMessages возвращает сообщения беседы в порядке отправки
func (d *Database) GetMessagingMessages(ctx context.Context, messagingID uint) ([]models.Message, error) {
	var messages []models.Message

	err := d.db.WithContext(ctx).
		Where("messaging_id = ?", messagingID).
		Order("created_at ASC").
		Order("id ASC").
		Preload("Author").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}
