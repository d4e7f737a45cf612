// tokens выпускает и проверяет пары access/refresh токенов.
//
// Оба токена — подписанные JWT (HS256) с общим секретом, но разным временем
// жизни: access несёт identity и роли, refresh — только identity и служит
// исключительно для выпуска новой пары. Identity из access-токена должна
// читаться и после его истечения: при переиздании клиент предъявляет
// живой refresh и, возможно, уже истёкший access.
package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pribylovaa/go-auth-service/internal/config"
	"github.com/pribylovaa/go-auth-service/internal/models"
)

// ErrInvalidToken — токен не прошёл проверку подписи/формата/срока.
var ErrInvalidToken = errors.New("invalid token")

// Identity — проверенная личность, извлечённая из токена.
type Identity struct {
	Username string
	Roles    []string
}

type claims struct {
	Username string   `json:"username"`
	Roles    []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// Manager реализует выпуск и валидацию токенов поверх golang-jwt.
type Manager struct {
	cfg config.AuthConfig
}

// NewManager создаёт менеджер токенов с данной конфигурацией.
func NewManager(cfg config.AuthConfig) *Manager {
	return &Manager{cfg: cfg}
}

// Issue выпускает новую пару токенов для identity.
func (m *Manager) Issue(identity string, roles []string) (*models.TokenPair, error) {
	const op = "tokens.Issue"

	now := time.Now().UTC()
	accessExp := now.Add(m.cfg.AccessTokenTTL)
	refreshExp := now.Add(m.cfg.RefreshTokenTTL)

	// Уникальный jti гарантирует, что две пары, выпущенные в одну и ту же
	// секунду, не совпадут побайтно: иначе ротация не меняла бы значение.
	access, err := m.sign(claims{
		Username: identity,
		Roles:    roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(accessExp),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    m.cfg.Issuer,
			Subject:   identity,
			Audience:  jwt.ClaimStrings(m.cfg.Audience),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	refresh, err := m.sign(claims{
		Username: identity,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(refreshExp),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    m.cfg.Issuer,
			Subject:   identity,
			Audience:  jwt.ClaimStrings(m.cfg.Audience),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (m *Manager) sign(c claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)

	signed, err := token.SignedString([]byte(m.cfg.JWTSecret))
	if err != nil {
		return "", err
	}

	return signed, nil
}

// Validate выполняет полную проверку токена: подпись, срок, issuer, audience.
func (m *Manager) Validate(tokenStr string) error {
	const op = "tokens.Validate"

	if _, err := m.parse(tokenStr, false); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// IdentityOf извлекает identity и роли из токена.
// Подпись проверяется всегда; истечение срока допускается — при переиздании
// identity читается из access-токена, который к этому моменту мог истечь.
func (m *Manager) IdentityOf(tokenStr string) (*Identity, error) {
	const op = "tokens.IdentityOf"

	c, err := m.parse(tokenStr, true)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Identity{Username: c.Username, Roles: c.Roles}, nil
}

// RemainingTTL возвращает оставшееся время жизни токена.
// Для уже истёкшего токена возвращает 0.
func (m *Manager) RemainingTTL(tokenStr string) (time.Duration, error) {
	const op = "tokens.RemainingTTL"

	c, err := m.parse(tokenStr, true)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if c.ExpiresAt == nil {
		return 0, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	ttl := time.Until(c.ExpiresAt.Time)
	if ttl < 0 {
		return 0, nil
	}

	return ttl, nil
}

// parse разбирает токен. При allowExpired пропускается проверка claims
// (срок/issuer/audience), но подпись проверяется безусловно.
func (m *Manager) parse(tokenStr string, allowExpired bool) (*claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}

	if allowExpired {
		opts = append(opts, jwt.WithoutClaimsValidation())
	} else {
		opts = append(opts,
			jwt.WithLeeway(5*time.Second),
			jwt.WithIssuer(m.cfg.Issuer),
			jwt.WithAudience(m.cfg.Audience...),
		)
	}

	token, err := jwt.ParseWithClaims(tokenStr, &claims{},
		func(t *jwt.Token) (interface{}, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, ErrInvalidToken
			}

			return []byte(m.cfg.JWTSecret), nil
		},
		opts...,
	)

	if err != nil {
		return nil, ErrInvalidToken
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return c, nil
}
