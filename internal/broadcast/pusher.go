package broadcast

import (
	"context"
	"net/http"
	"time"

	"github.com/pusher/pusher-http-go/v5"
	"github.com/sony/gobreaker"
	"github.com/thereayou/messagings/internal/config"
)

type pusherClient interface {
	Trigger(channel string, eventName string, data interface{}) error
}

// PusherBroadcaster публикует события через Pusher Channels
type PusherBroadcaster struct {
	client  pusherClient
	breaker *gobreaker.CircuitBreaker
}

func NewPusherBroadcaster(cfg config.PusherConfig, timeout time.Duration) *PusherBroadcaster {
	client := &pusher.Client{
		AppID:      cfg.AppID,
		Key:        cfg.Key,
		Secret:     cfg.Secret,
		Cluster:    cfg.Cluster,
		Secure:     cfg.Secure,
		HTTPClient: &http.Client{Timeout: timeout},
	}
	return newPusherBroadcaster(client)
}

func newPusherBroadcaster(client pusherClient) *PusherBroadcaster {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "pusher",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	return &PusherBroadcaster{client: client, breaker: breaker}
}

func (p *PusherBroadcaster) Trigger(ctx context.Context, channel, event string, data any) error {
	_, err := p.breaker.Execute(func() (interface{}, error) {
		return nil, p.trigger(ctx, channel, event, data)
	})
	return err
}

// pusher-http-go не принимает context, поэтому ждём ответа не дольше ctx
func (p *PusherBroadcaster) trigger(ctx context.Context, channel, event string, data any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		done <- p.client.Trigger(channel, event, data)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
