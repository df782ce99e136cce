package services

import (
	"context"

	"github.com/thereayou/messagings/internal/models"
)

type UserStore interface {
	GetUser(ctx context.Context, id uint) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateLastSeen(ctx context.Context, id uint) error
	GetFollowedUsers(ctx context.Context, userID uint) ([]models.User, error)
}

type MessagingStore interface {
	GetMessaging(ctx context.Context, id uint) (*models.Messaging, error)
	FindByAuthorOrParticipants(ctx context.Context, userID uint) ([]models.Messaging, error)
	FindByAuthorAndParticipant(ctx context.Context, userID, currentUserID uint) (*models.Messaging, error)
}

type MessageStore interface {
	SaveMessage(ctx context.Context, message *models.Message) error
	GetMessage(ctx context.Context, id uint) (*models.Message, error)
	GetMessagingMessages(ctx context.Context, messagingID uint) ([]models.Message, error)
}
