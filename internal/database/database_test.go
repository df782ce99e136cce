package database

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thereayou/messagings/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDatabase(t *testing.T) *Database {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	d := NewDatabase(db)
	require.NoError(t, d.Migrate())
	return d
}

func seedUser(t *testing.T, d *Database, name string) *models.User {
	t.Helper()
	u := &models.User{
		Username:     name,
		Email:        fmt.Sprintf("%s@example.com", name),
		PasswordHash: "x",
		Avatar:       name + ".png",
	}
	require.NoError(t, d.SaveUser(context.Background(), u))
	return u
}

func seedMessaging(t *testing.T, d *Database, author *models.User, createdAt time.Time, participants ...*models.User) *models.Messaging {
	t.Helper()
	m := &models.Messaging{AuthorID: author.ID, CreatedAt: createdAt}
	for _, p := range participants {
		m.Participants = append(m.Participants, *p)
	}
	require.NoError(t, d.db.Create(m).Error)
	return m
}

func ids(messagings []models.Messaging) []uint {
	out := make([]uint, 0, len(messagings))
	for _, m := range messagings {
		out = append(out, m.ID)
	}
	return out
}

func TestFindByAuthorOrParticipants(t *testing.T) {
	d := newTestDatabase(t)
	ctx := context.Background()
	now := time.Now()

	alice := seedUser(t, d, "alice")
	bob := seedUser(t, d, "bob")
	carol := seedUser(t, d, "carol")
	dave := seedUser(t, d, "dave")

	x := seedMessaging(t, d, alice, now.Add(-2*time.Hour), bob, carol)
	y := seedMessaging(t, d, bob, now.Add(-time.Hour), alice)
	z := seedMessaging(t, d, carol, now, dave)

	got, err := d.FindByAuthorOrParticipants(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{y.ID, x.ID}, ids(got))
	assert.NotContains(t, ids(got), z.ID)

	// участники и автор подгружены
	assert.Equal(t, "bob", got[0].Author.Username)
	assert.Len(t, got[1].Participants, 2)

	got, err = d.FindByAuthorOrParticipants(ctx, dave.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{z.ID}, ids(got))
}

func TestFindByAuthorAndParticipant(t *testing.T) {
	d := newTestDatabase(t)
	ctx := context.Background()
	now := time.Now()

	alice := seedUser(t, d, "alice")
	bob := seedUser(t, d, "bob")
	carol := seedUser(t, d, "carol")

	ab := seedMessaging(t, d, alice, now, bob)
	ca := seedMessaging(t, d, carol, now, alice)

	got, err := d.FindByAuthorAndParticipant(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, ab.ID, got.ID)

	got, err = d.FindByAuthorAndParticipant(ctx, carol.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, ca.ID, got.ID)

	_, err = d.FindByAuthorAndParticipant(ctx, carol.ID, bob.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestFindByAuthorAndParticipantSkipsGroups(t *testing.T) {
	d := newTestDatabase(t)
	ctx := context.Background()
	now := time.Now()

	alice := seedUser(t, d, "alice")
	bob := seedUser(t, d, "bob")
	carol := seedUser(t, d, "carol")

	ab := seedMessaging(t, d, alice, now.Add(-time.Hour), bob)
	seedMessaging(t, d, alice, now, bob, carol)

	got, err := d.FindByAuthorAndParticipant(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, ab.ID, got.ID)
	assert.Len(t, got.Participants, 1)

	// с carol есть только групповая беседа
	_, err = d.FindByAuthorAndParticipant(ctx, carol.ID, alice.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSaveAndListMessages(t *testing.T) {
	d := newTestDatabase(t)
	ctx := context.Background()

	alice := seedUser(t, d, "alice")
	bob := seedUser(t, d, "bob")
	m := seedMessaging(t, d, alice, time.Now(), bob)

	first := &models.Message{MessagingID: m.ID, AuthorID: alice.ID, Content: "hello", CreatedAt: time.Now()}
	second := &models.Message{MessagingID: m.ID, AuthorID: alice.ID, Content: "hello", CreatedAt: time.Now()}
	require.NoError(t, d.SaveMessage(ctx, first))
	require.NoError(t, d.SaveMessage(ctx, second))
	assert.NotEqual(t, first.ID, second.ID)

	stored, err := d.GetMessage(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", stored.Author.Username)

	messages, err := d.GetMessagingMessages(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, first.ID, messages[0].ID)
	assert.Equal(t, "hello", messages[0].Content)
	assert.Equal(t, "alice", messages[0].Author.Username)
}

func TestGetFollowedUsers(t *testing.T) {
	d := newTestDatabase(t)
	ctx := context.Background()

	alice := seedUser(t, d, "alice")
	bob := seedUser(t, d, "bob")
	carol := seedUser(t, d, "carol")

	require.NoError(t, d.db.Model(alice).Association("Followed").Append(carol, bob))

	users, err := d.GetFollowedUsers(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "bob", users[0].Username)
	assert.Equal(t, "carol", users[1].Username)

	users, err = d.GetFollowedUsers(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestGetMessagingNotFound(t *testing.T) {
	d := newTestDatabase(t)

	_, err := d.GetMessaging(context.Background(), 42)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
