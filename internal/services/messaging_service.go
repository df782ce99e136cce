package services

import (
	"context"
	"errors"

	"github.com/thereayou/messagings/internal/models"
	"gorm.io/gorm"
)

type MessagingService struct {
	store MessagingStore
	gate  Gate
}

func NewMessagingService(store MessagingStore, gate Gate) *MessagingService {
	return &MessagingService{store: store, gate: gate}
}

// ListVisible возвращает беседы пользователя userID; смотреть можно только свои
func (s *MessagingService) ListVisible(ctx context.Context, actor *models.User, userID uint) ([]models.Messaging, error) {
	if err := s.gate.RequireSelf(actor, userID); err != nil {
		return nil, err
	}
	return s.store.FindByAuthorOrParticipants(ctx, userID)
}

// FindByContributors ищет по одной беседе 1:1 между actor и каждым из contributorIDs
func (s *MessagingService) FindByContributors(ctx context.Context, actor *models.User, contributorIDs []uint) ([]models.Messaging, error) {
	if err := s.gate.RequireIdentity(actor); err != nil {
		return nil, err
	}

	result := make([]models.Messaging, 0, len(contributorIDs))
	seen := make(map[uint]bool, len(contributorIDs))
	added := make(map[uint]bool, len(contributorIDs))
	for _, id := range contributorIDs {
		if seen[id] {
			continue
		}
		seen[id] = true

		messaging, err := s.store.FindByAuthorAndParticipant(ctx, id, actor.ID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if added[messaging.ID] {
			continue
		}
		added[messaging.ID] = true
		result = append(result, *messaging)
	}
	return result, nil
}

// Visible загружает беседу и проверяет доступ к ней
func (s *MessagingService) Visible(ctx context.Context, actor *models.User, messagingID uint) (*models.Messaging, error) {
	if err := s.gate.RequireIdentity(actor); err != nil {
		return nil, err
	}
	messaging, err := s.store.GetMessaging(ctx, messagingID)
	if err != nil {
		return nil, notFound(err, "messaging")
	}
	if err := s.gate.RequireParty(actor, messaging); err != nil {
		return nil, err
	}
	return messaging, nil
}
