package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thereayou/messagings/internal/models"
	"go.uber.org/zap"
)

type messageFixture struct {
	store       *fakeStore
	broadcaster *fakeBroadcaster
	alice       *models.User
	bob         *models.User
	eve         *models.User
	messaging   *models.Messaging
}

func newMessageFixture() *messageFixture {
	store := newFakeStore()
	f := &messageFixture{
		store:       store,
		broadcaster: &fakeBroadcaster{},
		alice:       store.addUser(1, "alice"),
		bob:         store.addUser(2, "bob"),
		eve:         store.addUser(3, "eve"),
	}
	f.messaging = store.addMessaging(42, f.alice, time.Now(), f.bob)
	return f
}

func (f *messageFixture) service(enforce bool) *MessageService {
	gate := Gate{EnforceMembership: enforce}
	notifier := NewNotifier(f.broadcaster, NotifierConfig{Timeout: time.Second})
	svc := NewMessageService(f.store, NewMessagingService(f.store, gate), notifier, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC) }
	return svc
}

func TestCreateThenList(t *testing.T) {
	f := newMessageFixture()
	svc := f.service(true)
	ctx := context.Background()

	msg, err := svc.Create(ctx, f.bob, f.messaging.ID, "hello")
	require.NoError(t, err)
	assert.Equal(t, f.bob.ID, msg.AuthorID)
	assert.Equal(t, "bob", msg.Author.Username)

	views, err := svc.List(ctx, f.alice, f.messaging.ID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, msg.ID, views[0].ID)
	assert.Equal(t, "hello", views[0].Content)
	assert.Equal(t, "bob", views[0].Author)
	assert.Equal(t, "bob.png", views[0].Avatar)
	assert.Equal(t, []string{"bob"}, views[0].Contributors)
	assert.Equal(t, "05-03-2024", views[0].CreatedAt)
}

func TestCreateIsNotIdempotent(t *testing.T) {
	f := newMessageFixture()
	svc := f.service(true)
	ctx := context.Background()

	first, err := svc.Create(ctx, f.alice, f.messaging.ID, "same")
	require.NoError(t, err)
	second, err := svc.Create(ctx, f.alice, f.messaging.ID, "same")
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	views, err := svc.List(ctx, f.alice, f.messaging.ID)
	require.NoError(t, err)
	assert.Len(t, views, 2)
}

func TestCreateRejections(t *testing.T) {
	f := newMessageFixture()
	svc := f.service(true)
	ctx := context.Background()

	_, err := svc.Create(ctx, f.alice, f.messaging.ID, "   ")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(ctx, nil, f.messaging.ID, "hi")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Create(ctx, f.alice, 999, "hi")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Create(ctx, f.eve, f.messaging.ID, "hi")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.List(ctx, f.eve, f.messaging.ID)
	assert.ErrorIs(t, err, ErrUnauthorized)

	assert.Empty(t, f.store.messages)
}

func TestOutsiderAllowedWithoutMembershipEnforcement(t *testing.T) {
	f := newMessageFixture()
	svc := f.service(false)

	msg, err := svc.Create(context.Background(), f.eve, f.messaging.ID, "hi")
	require.NoError(t, err)
	assert.Equal(t, f.eve.ID, msg.AuthorID)
}

func TestPostNotifies(t *testing.T) {
	f := newMessageFixture()
	svc := f.service(true)

	res, err := svc.Post(context.Background(), f.bob, f.messaging.ID, "hello")
	require.NoError(t, err)
	assert.Equal(t, "my-channel-42", res.Notification.Channel)
	assert.Equal(t, "my_event", res.Notification.Event)

	require.Len(t, f.broadcaster.calls, 1)
	call := f.broadcaster.calls[0]
	assert.Equal(t, "my-channel-42", call.channel)
	assert.Equal(t, NotificationPayload{
		Content: "hello",
		Image:   "bob.png",
		User:    "bob",
		Date:    "05/03/24",
	}, call.data)
}

func TestPostDispatchFailureKeepsMessage(t *testing.T) {
	f := newMessageFixture()
	f.broadcaster.err = errors.New("pusher down")
	svc := f.service(true)
	ctx := context.Background()

	_, err := svc.Post(ctx, f.alice, f.messaging.ID, "hello")
	assert.ErrorIs(t, err, ErrDispatch)

	views, err := svc.List(ctx, f.alice, f.messaging.ID)
	require.NoError(t, err)
	assert.Len(t, views, 1)
}

func TestPostValidationSkipsDispatch(t *testing.T) {
	f := newMessageFixture()
	svc := f.service(true)

	_, err := svc.Post(context.Background(), f.alice, f.messaging.ID, "")
	assert.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, f.broadcaster.calls)
}
