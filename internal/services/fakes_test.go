package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/thereayou/messagings/internal/models"
	"gorm.io/gorm"
)

type fakeStore struct {
	mu         sync.Mutex
	users      map[uint]*models.User
	follows    map[uint][]uint
	messagings map[uint]*models.Messaging
	messages   []models.Message
	nextID     uint
	saveErr    error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:      make(map[uint]*models.User),
		follows:    make(map[uint][]uint),
		messagings: make(map[uint]*models.Messaging),
	}
}

func (f *fakeStore) addUser(id uint, name string) *models.User {
	u := &models.User{ID: id, Username: name, Email: name + "@example.com", Avatar: name + ".png"}
	f.users[id] = u
	return u
}

func (f *fakeStore) addMessaging(id uint, author *models.User, createdAt time.Time, participants ...*models.User) *models.Messaging {
	m := &models.Messaging{ID: id, AuthorID: author.ID, Author: *author, CreatedAt: createdAt}
	for _, p := range participants {
		m.Participants = append(m.Participants, *p)
	}
	f.messagings[id] = m
	return m
}

func isParticipant(m *models.Messaging, userID uint) bool {
	for _, p := range m.Participants {
		if p.ID == userID {
			return true
		}
	}
	return false
}

func (f *fakeStore) sortedMessagings() []*models.Messaging {
	out := make([]*models.Messaging, 0, len(f.messagings))
	for _, m := range f.messagings {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (f *fakeStore) GetUser(_ context.Context, id uint) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (f *fakeStore) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStore) UpdateLastSeen(_ context.Context, id uint) error {
	u, ok := f.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.LastSeenAt = time.Now()
	return nil
}

func (f *fakeStore) GetFollowedUsers(_ context.Context, userID uint) ([]models.User, error) {
	var out []models.User
	for _, id := range f.follows[userID] {
		out = append(out, *f.users[id])
	}
	return out, nil
}

func (f *fakeStore) GetMessaging(_ context.Context, id uint) (*models.Messaging, error) {
	m, ok := f.messagings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m, nil
}

func (f *fakeStore) FindByAuthorOrParticipants(_ context.Context, userID uint) ([]models.Messaging, error) {
	var out []models.Messaging
	for _, m := range f.sortedMessagings() {
		if m.AuthorID == userID || isParticipant(m, userID) {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeStore) FindByAuthorAndParticipant(_ context.Context, userID, currentUserID uint) (*models.Messaging, error) {
	for _, m := range f.sortedMessagings() {
		if len(m.Participants) != 1 {
			continue
		}
		if (m.AuthorID == currentUserID && isParticipant(m, userID)) ||
			(m.AuthorID == userID && isParticipant(m, currentUserID)) {
			return m, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStore) SaveMessage(_ context.Context, message *models.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.nextID++
	message.ID = f.nextID
	f.messages = append(f.messages, *message)
	return nil
}

func (f *fakeStore) GetMessage(_ context.Context, id uint) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.messages {
		if m.ID == id {
			m.Author = *f.users[m.AuthorID]
			return &m, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStore) GetMessagingMessages(_ context.Context, messagingID uint) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Message
	for _, m := range f.messages {
		if m.MessagingID == messagingID {
			m.Author = *f.users[m.AuthorID]
			out = append(out, m)
		}
	}
	return out, nil
}

type triggerCall struct {
	channel string
	event   string
	data    any
}

type fakeBroadcaster struct {
	mu    sync.Mutex
	calls []triggerCall
	err   error
	block bool
}

func (b *fakeBroadcaster) Trigger(ctx context.Context, channel, event string, data any) error {
	if b.block {
		<-ctx.Done()
		return ctx.Err()
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	b.calls = append(b.calls, triggerCall{channel: channel, event: event, data: data})
	return nil
}
