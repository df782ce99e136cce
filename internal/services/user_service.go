package services

import (
	"context"

	"github.com/thereayou/messagings/internal/models"
)

type FollowedUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

type UserService struct {
	store UserStore
	gate  Gate
}

func NewUserService(store UserStore, gate Gate) *UserService {
	return &UserService{store: store, gate: gate}
}

// Resolve загружает пользователя, от имени которого выполняется запрос
func (s *UserService) Resolve(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return user, nil
}

func (s *UserService) ListFollowed(ctx context.Context, actor *models.User, userID uint) ([]FollowedUser, error) {
	if err := s.gate.RequireSelf(actor, userID); err != nil {
		return nil, err
	}

	users, err := s.store.GetFollowedUsers(ctx, userID)
	if err != nil {
		return nil, err
	}

	output := make([]FollowedUser, 0, len(users))
	for _, u := range users {
		output = append(output, FollowedUser{ID: u.ID, Username: u.Username})
	}
	return output, nil
}
