package database

import (
	"context"
	"time"

	"github.com/thereayou/messagings/internal/models"
)

func (d *Database) SaveUser(ctx context.Context, user *models.User) error {
	return d.db.WithContext(ctx).Create(user).Error
}

func (d *Database) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user := models.User{}
	if err := d.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *Database) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user := models.User{}
	if err := d.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *Database) UpdateLastSeen(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("last_seen_at", time.Now()).Error
}

// GetFollowedUsers возвращает пользователей, на которых подписан userID
func (d *Database) GetFollowedUsers(ctx context.Context, userID uint) ([]models.User, error) {
	var users []models.User
	err := d.db.WithContext(ctx).
		Joins("JOIN user_follows uf ON uf.followed_id = users.id").
		Where("uf.user_id = ?", userID).
		Order("users.username ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
