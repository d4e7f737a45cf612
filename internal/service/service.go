// service содержит бизнес-логику жизненного цикла токенов:
// регистрацию и вход пользователей, переиздание и отзыв пары токенов,
// повышение роли. Работа с коллабораторами идёт через интерфейсы,
// передаваемые в конструктор.
//
// Основные аспекты:
//   - Пакет не хранит состояние запроса внутри Service; экземпляр Service
//     безопасен для конкурентного использования из разных горутин при условии,
//     что переданные хранилища потокобезопасны.
//   - Конкурентные Login/Reissue/Logout по одному identity конкурируют на
//     уровне сессионного хранилища: последняя запись побеждает, CAS нет.
//   - Ошибки возвращаются как типизированные sentinel-значения и далее
//     маппятся транспортом на HTTP-статусы (см. комментарии ниже).
package service

import (
	"context"
	"errors"
	"time"

	"github.com/pribylovaa/go-auth-service/internal/config"
	"github.com/pribylovaa/go-auth-service/internal/models"
	"github.com/pribylovaa/go-auth-service/internal/sessions"
	"github.com/pribylovaa/go-auth-service/internal/storage"
	"github.com/pribylovaa/go-auth-service/internal/tokens"
)

var (
	// ErrUserExists — username уже занят (повторная регистрация).
	// Транспорт: HTTP 409.
	ErrUserExists = errors.New("user already exists")

	// ErrUserNotFound — пользователь с таким identity не найден.
	// Транспорт: HTTP 404.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials — пара логин/пароль неверна.
	// Возвращается аутентификатором и пробрасывается без переклассификации.
	// Транспорт: HTTP 401.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken — токен не прошёл проверку подписи/срока либо отозван.
	// Транспорт: HTTP 401.
	ErrInvalidToken = errors.New("invalid token")

	// ErrNoActiveSession — для identity нет refresh-записи в сессионном
	// хранилище: сессия завершена или не начиналась. Транспорт: HTTP 400.
	ErrNoActiveSession = errors.New("no active session")

	// ErrTokenMismatch — предъявленный refresh-токен не совпадает с
	// сохранённым (устаревший или повторно использованный). Транспорт: HTTP 401.
	ErrTokenMismatch = errors.New("refresh token mismatch")
)

// TokenIssuer выпускает и проверяет токены.
type TokenIssuer interface {
	// Issue выпускает пару токенов для identity с данным набором ролей.
	Issue(identity string, roles []string) (*models.TokenPair, error)
	// Validate выполняет полную проверку токена (подпись, срок).
	Validate(token string) error
	// IdentityOf извлекает identity из токена; истечение срока допускается.
	IdentityOf(token string) (*tokens.Identity, error)
	// RemainingTTL возвращает оставшееся время жизни токена.
	RemainingTTL(token string) (time.Duration, error)
}

// Authenticator сверяет учётные данные и возвращает подтверждённого пользователя.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
}

// PasswordHasher хэширует пароль перед сохранением.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// Service реализует жизненный цикл токенов поверх коллабораторов.
type Service struct {
	users    storage.UserStorage
	sessions sessions.Store
	issuer   TokenIssuer
	auth     Authenticator
	hasher   PasswordHasher
	cfg      config.AuthConfig
}

// New создаёт новый экземпляр Service.
func New(
	users storage.UserStorage,
	sess sessions.Store,
	issuer TokenIssuer,
	auth Authenticator,
	hasher PasswordHasher,
	cfg config.AuthConfig,
) *Service {
	return &Service{
		users:    users,
		sessions: sess,
		issuer:   issuer,
		auth:     auth,
		hasher:   hasher,
		cfg:      cfg,
	}
}
