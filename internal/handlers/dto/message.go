package dto

import (
	"github.com/thereayou/messagings/internal/models"
	"github.com/thereayou/messagings/internal/services"
)

// MessagePayload тело запроса на новое сообщение (JSON или form)
type MessagePayload struct {
	Content string `json:"content" form:"content" binding:"required"`
}

// MessageResponse структура для исходящих сообщений
type MessageResponse struct {
	ID          uint     `json:"id"`
	MessagingID uint     `json:"messaging_id"`
	Content     string   `json:"content"`
	CreatedAt   string   `json:"createdAt"`
	User        UserInfo `json:"user"`
}

type CreatedMessageResponse struct {
	Status  string          `json:"status"`
	Message MessageResponse `json:"message"`
	Channel string          `json:"channel"`
	Event   string          `json:"event"`
}

func NewCreatedMessageResponse(result *services.PostResult) CreatedMessageResponse {
	msg := result.Message
	return CreatedMessageResponse{
		Status: "created",
		Message: MessageResponse{
			ID:          msg.ID,
			MessagingID: msg.MessagingID,
			Content:     msg.Content,
			CreatedAt:   msg.CreatedAt.Format(services.MessageDateLayout),
			User:        NewUserInfo(&msg.Author),
		},
		Channel: result.Notification.Channel,
		Event:   result.Notification.Event,
	}
}

type UserInfo struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
}

func NewUserInfo(u *models.User) UserInfo {
	return UserInfo{ID: u.ID, Username: u.Username, Avatar: u.Avatar}
}
