package models

import (
	"time"

	"github.com/google/uuid"
)

// User - учётная запись пользователя.
//
// Username — стабильный идентификатор (логин/email), по нему же
// строится ключ сессионного состояния в Redis.
// Roles содержит как минимум базовую роль, выдаваемую при регистрации;
// повышение добавляет роли в конец списка.
type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	Phone        string
	PasswordHash string
	Roles        []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
