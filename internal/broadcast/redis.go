package broadcast

import (
	"context"
	"encoding/json"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Event конверт, который публикуется в Redis
type Event struct {
	Channel string          `json:"channel"`
	Event   string          `json:"event"`
	Data    json.RawMessage `json:"data"`
}

// Sink получает события, пришедшие из Redis
type Sink interface {
	Deliver(channel, event string, data json.RawMessage)
}

// RedisBroadcaster публикует события в Redis pub/sub; Relay доставляет их в websocket hub
type RedisBroadcaster struct {
	rdb *redis.Client
	log *zap.Logger
}

func NewRedisBroadcaster(rdb *redis.Client, log *zap.Logger) *RedisBroadcaster {
	return &RedisBroadcaster{rdb: rdb, log: log}
}

func (r *RedisBroadcaster) Trigger(ctx context.Context, channel, event string, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(Event{Channel: channel, Event: event, Data: raw})
	if err != nil {
		return err
	}

	return r.rdb.Publish(ctx, channel, payload).Err()
}

// Relay подписывается на pattern и передаёт события в sink до отмены ctx
func (r *RedisBroadcaster) Relay(ctx context.Context, pattern string, sink Sink) error {
	pubsub := r.rdb.PSubscribe(ctx, pattern)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return err
	}

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil

		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				r.log.Warn("skipping malformed event", zap.String("channel", msg.Channel), zap.Error(err))
				continue
			}
			sink.Deliver(msg.Channel, ev.Event, ev.Data)
		}
	}
}
