package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/thereayou/messagings/internal/metrics"
	"github.com/thereayou/messagings/internal/models"
)

const NotificationDateLayout = "02/01/06"

// Broadcaster публикует событие в канал внешнего push-сервиса
type Broadcaster interface {
	Trigger(ctx context.Context, channel, event string, data any) error
}

type NotifierConfig struct {
	ChannelPrefix string
	EventName     string
	Timeout       time.Duration
}

type NotificationPayload struct {
	Content string `json:"content"`
	Image   string `json:"image"`
	User    string `json:"user"`
	Date    string `json:"date"`
}

type Notification struct {
	Channel string              `json:"channel"`
	Event   string              `json:"event"`
	Payload NotificationPayload `json:"payload"`
}

type Notifier struct {
	broadcaster Broadcaster
	cfg         NotifierConfig
}

func NewNotifier(b Broadcaster, cfg NotifierConfig) *Notifier {
	if cfg.ChannelPrefix == "" {
		cfg.ChannelPrefix = "my-channel-"
	}
	if cfg.EventName == "" {
		cfg.EventName = "my_event"
	}
	return &Notifier{broadcaster: b, cfg: cfg}
}

func (n *Notifier) Channel(messagingID uint) string {
	return n.cfg.ChannelPrefix + strconv.FormatUint(uint64(messagingID), 10)
}

// MessagingID разбирает имя канала обратно в id беседы
func (n *Notifier) MessagingID(channel string) (uint, bool) {
	raw, ok := strings.CutPrefix(channel, n.cfg.ChannelPrefix)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// Notify рассылает новое сообщение подписчикам канала беседы. Доставка не гарантируется.
func (n *Notifier) Notify(ctx context.Context, message *models.Message, messagingID uint) (*Notification, error) {
	notification := &Notification{
		Channel: n.Channel(messagingID),
		Event:   n.cfg.EventName,
		Payload: NotificationPayload{
			Content: message.Content,
			Image:   message.Author.Avatar,
			User:    message.Author.Username,
			Date:    message.CreatedAt.Format(NotificationDateLayout),
		},
	}

	if n.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.cfg.Timeout)
		defer cancel()
	}

	if err := n.broadcaster.Trigger(ctx, notification.Channel, notification.Event, notification.Payload); err != nil {
		metrics.Notifications.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("%w: %v", ErrDispatch, err)
	}
	metrics.Notifications.WithLabelValues("sent").Inc()
	return notification, nil
}
