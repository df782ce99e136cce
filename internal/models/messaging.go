package models

import (
	"time"
)

// Messaging - беседа: автор плюс набор участников
type Messaging struct {
	ID        uint      `gorm:"primaryKey"`
	AuthorID  uint      `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"index"`

	// Связи
	Author       User      `gorm:"foreignKey:AuthorID"`
	Participants []User    `gorm:"many2many:messaging_participants"`
	Messages     []Message `gorm:"foreignKey:MessagingID"`
}

// HasParty проверяет, является ли пользователь автором или участником беседы
func (m *Messaging) HasParty(userID uint) bool {
	if m.AuthorID == userID {
		return true
	}
	for _, p := range m.Participants {
		if p.ID == userID {
			return true
		}
	}
	return false
}

// ParticipantUsernames возвращает имена участников беседы
func (m *Messaging) ParticipantUsernames() []string {
	names := make([]string, 0, len(m.Participants))
	for _, p := range m.Participants {
		names = append(names, p.Username)
	}
	return names
}
