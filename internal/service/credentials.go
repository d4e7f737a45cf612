package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/pribylovaa/go-auth-service/internal/models"
	"github.com/pribylovaa/go-auth-service/internal/storage"
)

// BcryptHasher — PasswordHasher поверх bcrypt со стандартной стоимостью.
type BcryptHasher struct{}

// Hash хэширует пароль с помощью bcrypt.
func (BcryptHasher) Hash(password string) (string, error) {
	const op = "service.credentials.Hash"

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return string(bytes), nil
}

// bcryptAuthenticator — Authenticator, сверяющий пароль с bcrypt-хэшем
// из хранилища пользователей.
type bcryptAuthenticator struct {
	users storage.UserStorage
}

// NewBcryptAuthenticator создаёт аутентификатор поверх хранилища пользователей.
func NewBcryptAuthenticator(users storage.UserStorage) Authenticator {
	return &bcryptAuthenticator{users: users}
}

// Authenticate проверяет пару логин/пароль и возвращает пользователя.
// Неизвестный логин и неверный пароль неразличимы для вызывающего.
func (a *bcryptAuthenticator) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	const op = "service.credentials.Authenticate"

	user, err := a.users.UserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	return user, nil
}
