package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thereayou/messagings/internal/models"
)

func TestNotifyChannelAndPayload(t *testing.T) {
	b := &fakeBroadcaster{}
	n := NewNotifier(b, NotifierConfig{})

	msg := &models.Message{
		Content:   "ping",
		CreatedAt: time.Date(2023, time.December, 31, 23, 0, 0, 0, time.UTC),
		Author:    models.User{Username: "alice", Avatar: "a.png"},
	}

	notification, err := n.Notify(context.Background(), msg, 42)
	require.NoError(t, err)
	assert.Equal(t, "my-channel-42", notification.Channel)
	assert.Equal(t, "my_event", notification.Event)
	assert.Equal(t, "31/12/23", notification.Payload.Date)

	require.Len(t, b.calls, 1)
	assert.Equal(t, "my-channel-42", b.calls[0].channel)
	assert.Equal(t, "my_event", b.calls[0].event)
}

func TestNotifyTimeout(t *testing.T) {
	b := &fakeBroadcaster{block: true}
	n := NewNotifier(b, NotifierConfig{Timeout: 20 * time.Millisecond})

	start := time.Now()
	_, err := n.Notify(context.Background(), &models.Message{}, 1)
	assert.ErrorIs(t, err, ErrDispatch)
	assert.Less(t, time.Since(start), time.Second)
}

func TestMessagingIDFromChannel(t *testing.T) {
	n := NewNotifier(&fakeBroadcaster{}, NotifierConfig{ChannelPrefix: "chat-"})

	id, ok := n.MessagingID("chat-17")
	assert.True(t, ok)
	assert.Equal(t, uint(17), id)
	assert.Equal(t, "chat-17", n.Channel(17))

	for _, bad := range []string{"my-channel-17", "chat-", "chat-x", "chat-0", "chat--1"} {
		_, ok := n.MessagingID(bad)
		assert.False(t, ok, bad)
	}
}
