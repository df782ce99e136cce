package services

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/thereayou/messagings/pkg/auth"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	users UserStore
	jwt   *auth.JWTManager
	redis *redis.Client
}

func NewAuthService(users UserStore, jwtMgr *auth.JWTManager, rdb *redis.Client) *AuthService {
	return &AuthService{users: users, jwt: jwtMgr, redis: rdb}
}

// Login проверяет пароль, обновляет last_seen и выдаёт JWT
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	if err := s.users.UpdateLastSeen(ctx, user.ID); err != nil {
		return "", err
	}

	return s.jwt.Generate(user.ID)
}

// Logout ставит токен в черный список в Redis до истечения
func (s *AuthService) Logout(ctx context.Context, token string) error {
	exp, err := s.jwt.Expiry(token)
	if err != nil {
		return ErrUnauthorized
	}
	return s.redis.Set(ctx, auth.BlacklistKey(token), 1, time.Until(exp)).Err()
}
