// sessions хранит сессионное состояние токенов в key-value хранилище с TTL.
//
// Схема ключей (единая точка истинности — key-билдеры ниже):
//   - "RT:<identity>"     -> текущее значение refresh-токена,
//     TTL = оставшееся время жизни refresh-токена. На identity существует
//     не более одной живой записи: login и reissue перезаписывают её.
//   - "BL:<access-token>" -> метка "revoked",
//     TTL = оставшееся время жизни access-токена на момент logout.
//     Запись не удаляется раньше срока — она должна пережить сам токен.
//
// Префиксы исключают пересечение пространств ключей между refresh-записями
// и метками отзыва. Явной очистки не требуется: обе записи выселяет TTL.
package sessions

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound — запись отсутствует в хранилище (нет активной сессии).
var ErrNotFound = errors.New("session entry not found")

const (
	refreshKeyPrefix   = "RT:"
	blacklistKeyPrefix = "BL:"

	// revokedMarker — значение метки отзыва access-токена.
	revokedMarker = "revoked"
)

func refreshKey(identity string) string { return refreshKeyPrefix + identity }

func blacklistKey(accessToken string) string { return blacklistKeyPrefix + accessToken }

// Store — контракт сессионного хранилища.
type Store interface {
	// SaveRefreshToken записывает текущий refresh-токен для identity с TTL,
	// перезаписывая предыдущее значение.
	SaveRefreshToken(ctx context.Context, identity, token string, ttl time.Duration) error
	// RefreshTokenByIdentity возвращает сохранённый refresh-токен или ErrNotFound.
	RefreshTokenByIdentity(ctx context.Context, identity string) (string, error)
	// DeleteRefreshToken удаляет refresh-запись; отсутствие записи не ошибка.
	DeleteRefreshToken(ctx context.Context, identity string) error
	// BlacklistAccessToken помечает access-токен отозванным на срок ttl.
	BlacklistAccessToken(ctx context.Context, accessToken string, ttl time.Duration) error
	// IsBlacklisted отвечает, отозван ли access-токен.
	IsBlacklisted(ctx context.Context, accessToken string) (bool, error)
	// Close закрывает соединение с хранилищем.
	Close() error
}
