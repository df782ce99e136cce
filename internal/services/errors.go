package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrUnauthorized       = errors.New("unauthorized user to make this action")
	ErrNotFound           = errors.New("entity not found")
	ErrValidation         = errors.New("validation failed")
	ErrDispatch           = errors.New("notification dispatch failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// notFound переводит отсутствие записи в ErrNotFound, остальные ошибки отдаёт как есть
func notFound(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", entity, ErrNotFound)
	}
	return err
}
