package models

import (
	"time"
)

type Message struct {
	ID          uint   `gorm:"primaryKey"`
	MessagingID uint   `gorm:"not null;index"`
	AuthorID    uint   `gorm:"not null"`
	Content     string `gorm:"type:text;not null"`
	CreatedAt   time.Time

	// Связи
	Author    User      `gorm:"foreignKey:AuthorID"`
	Messaging Messaging `gorm:"foreignKey:MessagingID"`
}
