package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/thereayou/messagings/internal/metrics"
	"github.com/thereayou/messagings/internal/models"
	"go.uber.org/zap"
)

const MessageDateLayout = "02-01-2006"

type MessageView struct {
	ID           uint     `json:"id"`
	Author       string   `json:"author"`
	Contributors []string `json:"contributors"`
	Avatar       string   `json:"avatar"`
	Content      string   `json:"content"`
	CreatedAt    string   `json:"createdAt"`
}

type PostResult struct {
	Message      *models.Message
	Notification *Notification
}

type MessageService struct {
	store      MessageStore
	messagings *MessagingService
	notifier   *Notifier
	log        *zap.Logger
	now        func() time.Time
}

func NewMessageService(store MessageStore, messagings *MessagingService, notifier *Notifier, log *zap.Logger) *MessageService {
	return &MessageService{
		store:      store,
		messagings: messagings,
		notifier:   notifier,
		log:        log,
		now:        time.Now,
	}
}

// List возвращает сообщения беседы для отображения
func (s *MessageService) List(ctx context.Context, actor *models.User, messagingID uint) ([]MessageView, error) {
	messaging, err := s.messagings.Visible(ctx, actor, messagingID)
	if err != nil {
		return nil, err
	}

	messages, err := s.store.GetMessagingMessages(ctx, messaging.ID)
	if err != nil {
		return nil, err
	}

	contributors := messaging.ParticipantUsernames()
	views := make([]MessageView, len(messages))
	for i, msg := range messages {
		views[i] = MessageView{
			ID:           msg.ID,
			Author:       msg.Author.Username,
			Contributors: contributors,
			Avatar:       msg.Author.Avatar,
			Content:      msg.Content,
			CreatedAt:    msg.CreatedAt.Format(MessageDateLayout),
		}
	}
	return views, nil
}

// Create сохраняет сообщение; после возврата оно уже доступно в List
func (s *MessageService) Create(ctx context.Context, actor *models.User, messagingID uint, content string) (*models.Message, error) {
	messaging, err := s.messagings.Visible(ctx, actor, messagingID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("content is empty: %w", ErrValidation)
	}

	message := &models.Message{
		MessagingID: messaging.ID,
		AuthorID:    actor.ID,
		Content:     content,
		CreatedAt:   s.now(),
	}
	if err := s.store.SaveMessage(ctx, message); err != nil {
		return nil, err
	}
	metrics.MessagesCreated.Inc()

	// Перечитываем вместе с автором
	stored, err := s.store.GetMessage(ctx, message.ID)
	if err != nil {
		return nil, err
	}
	return stored, nil
}

// Post сохраняет сообщение и рассылает уведомление. Ошибка рассылки не откатывает сохранённое сообщение.
func (s *MessageService) Post(ctx context.Context, actor *models.User, messagingID uint, content string) (*PostResult, error) {
	message, err := s.Create(ctx, actor, messagingID, content)
	if err != nil {
		return nil, err
	}

	notification, err := s.notifier.Notify(ctx, message, messagingID)
	if err != nil {
		s.log.Error("message stored but notification failed",
			zap.Uint("message_id", message.ID),
			zap.Uint("messaging_id", messagingID),
			zap.Error(err),
		)
		return nil, err
	}

	return &PostResult{Message: message, Notification: notification}, nil
}
