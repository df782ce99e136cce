package models

import (
	"time"
)

type User struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"uniqueIndex;not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Avatar       string
	LastSeenAt   time.Time
	CreatedAt    time.Time

	// Подписки: user_id подписан на followed_id
	Followed []*User `gorm:"many2many:user_follows;joinForeignKey:UserID;joinReferences:FollowedID"`
}
