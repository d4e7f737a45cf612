package storage

import (
	"context"
	"errors"

	"github.com/pribylovaa/go-auth-service/internal/models"
)

var (
	// ErrNotFound — запись не найдена (пользователь).
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists — нарушение уникальности (username).
	ErrAlreadyExists = errors.New("already exists")
)

// UserStorage выполняет операции над пользователями.
type UserStorage interface {
	// SaveUser создает нового пользователя в БД.
	SaveUser(ctx context.Context, user *models.User) error
	// UserByUsername находит пользователя по его identity (логину).
	UserByUsername(ctx context.Context, username string) (*models.User, error)
	// ExistsByUsername отвечает, занят ли username.
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	// UpdateUserRoles заменяет набор ролей пользователя.
	UpdateUserRoles(ctx context.Context, username string, roles []string) error
}

// Storage задает контракт работы с БД.
type Storage interface {
	UserStorage
	Close()
}
