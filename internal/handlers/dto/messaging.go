package dto

import (
	"time"

	"github.com/thereayou/messagings/internal/models"
)

// MessagingSummary беседа в списке: автор, участники, дата создания
type MessagingSummary struct {
	ID           uint       `json:"id"`
	Author       UserInfo   `json:"author"`
	Participants []UserInfo `json:"participants"`
	CreatedAt    time.Time  `json:"created_at"`
}

func NewMessagingSummaries(messagings []models.Messaging) []MessagingSummary {
	out := make([]MessagingSummary, 0, len(messagings))
	for i := range messagings {
		m := &messagings[i]
		participants := make([]UserInfo, 0, len(m.Participants))
		for j := range m.Participants {
			participants = append(participants, NewUserInfo(&m.Participants[j]))
		}
		out = append(out, MessagingSummary{
			ID:           m.ID,
			Author:       NewUserInfo(&m.Author),
			Participants: participants,
			CreatedAt:    m.CreatedAt,
		})
	}
	return out
}
