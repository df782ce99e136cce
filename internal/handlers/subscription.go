package handlers

import (
	"context"
	"time"

	"github.com/thereayou/messagings/internal/services"
	"github.com/thereayou/messagings/internal/websocket"
)

const subscriptionTimeout = 5 * time.Second

// SubscriptionAuthorizer пускает в канал беседы только тех, кому она видна
type SubscriptionAuthorizer struct {
	users      *services.UserService
	messagings *services.MessagingService
	notifier   *services.Notifier
}

func NewSubscriptionAuthorizer(users *services.UserService, messagings *services.MessagingService, notifier *services.Notifier) *SubscriptionAuthorizer {
	return &SubscriptionAuthorizer{users: users, messagings: messagings, notifier: notifier}
}

func (a *SubscriptionAuthorizer) AuthorizeSubscription(userID uint, channel string) error {
	messagingID, ok := a.notifier.MessagingID(channel)
	if !ok {
		return websocket.ErrUnknownChannel
	}

	ctx, cancel := context.WithTimeout(context.Background(), subscriptionTimeout)
	defer cancel()

	actor, err := a.users.Resolve(ctx, userID)
	if err != nil {
		return websocket.ErrUnauthorized
	}
	if _, err := a.messagings.Visible(ctx, actor, messagingID); err != nil {
		return websocket.ErrUnauthorized
	}
	return nil
}
