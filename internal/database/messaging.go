package database

import (
	"context"

	"github.com/thereayou/messagings/internal/models"
	"gorm.io/gorm"
)

func (d *Database) participantOf(ctx context.Context, userID uint) *gorm.DB {
	return d.db.WithContext(ctx).
		Table("messaging_participants").
		Select("messaging_id").
		Where("user_id = ?", userID)
}

func (d *Database) GetMessaging(ctx context.Context, id uint) (*models.Messaging, error) {
	var messaging models.Messaging
	err := d.db.WithContext(ctx).
		Preload("Author").
		Preload("Participants").
		First(&messaging, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &messaging, nil
}

// direct выбирает беседы ровно с одним участником (1:1)
func (d *Database) direct(ctx context.Context) *gorm.DB {
	return d.db.WithContext(ctx).
		Table("messaging_participants").
		Select("messaging_id").
		Group("messaging_id").
		Having("COUNT(*) = 1")
}

// FindByAuthorOrParticipants возвращает беседы, где пользователь автор или участник, новые первыми
func (d *Database) FindByAuthorOrParticipants(ctx context.Context, userID uint) ([]models.Messaging, error) {
	var messagings []models.Messaging

	err := d.db.WithContext(ctx).
		Where("author_id = ? OR id IN (?)", userID, d.participantOf(ctx, userID)).
		Order("created_at DESC").
		Order("id DESC").
		Preload("Author").
		Preload("Participants").
		Find(&messagings).Error
	if err != nil {
		return nil, err
	}
	return messagings, nil
}

// FindByAuthorAndParticipant ищет беседу 1:1 между двумя пользователями в любом направлении
func (d *Database) FindByAuthorAndParticipant(ctx context.Context, userID, currentUserID uint) (*models.Messaging, error) {
	var messaging models.Messaging

	err := d.db.WithContext(ctx).
		Where("(author_id = ? AND id IN (?)) OR (author_id = ? AND id IN (?))",
			currentUserID, d.participantOf(ctx, userID),
			userID, d.participantOf(ctx, currentUserID),
		).
		Where("id IN (?)", d.direct(ctx)).
		Order("created_at DESC").
		Order("id DESC").
		Preload("Author").
		Preload("Participants").
		First(&messaging).Error
	if err != nil {
		return nil, err
	}
	return &messaging, nil
}
