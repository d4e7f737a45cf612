package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-auth-service/internal/models"
	logctx "github.com/pribylovaa/go-auth-service/internal/pkg/log"
	"github.com/pribylovaa/go-auth-service/internal/pkg/redact"
	"github.com/pribylovaa/go-auth-service/internal/sessions"
	"github.com/pribylovaa/go-auth-service/internal/storage"
	"github.com/pribylovaa/go-auth-service/internal/tokens"
)

// SignUp регистрирует нового пользователя с базовой ролью.
func (s *Service) SignUp(ctx context.Context, username, password, phone, email string) error {
	const op = "service.auth.SignUp"

	exists, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if exists {
		return fmt.Errorf("%s: %w", op, ErrUserExists)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		Phone:        phone,
		PasswordHash: hash,
		Roles:        []string{s.cfg.DefaultRole},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.SaveUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return fmt.Errorf("%s: %w", op, ErrUserExists)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	logctx.From(ctx).Info("user_signed_up",
		slog.String("username", redact.Email(username)),
	)

	return nil
}

// Login выполняет вход по username+пароль и открывает сессию:
// выпускает пару токенов и записывает refresh-токен в сессионное
// хранилище с TTL, равным сроку его жизни.
func (s *Service) Login(ctx context.Context, username, password string) (*models.TokenPair, error) {
	const op = "service.auth.Login"

	if _, err := s.users.UserByUsername(ctx, username); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// Проверка пароля делегируется аутентификатору; его ошибка
	// пробрасывается без переклассификации.
	user, err := s.auth.Authenticate(ctx, username, password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	pair, err := s.openSession(ctx, user.Username, user.Roles)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	logctx.From(ctx).Info("user_logged_in",
		slog.String("username", redact.Email(user.Username)),
	)

	return pair, nil
}

// Reissue выпускает новую пару токенов по живому refresh-токену.
//
// Identity извлекается из access-токена: он может быть уже истёкшим,
// но обязан оставаться корректно подписанным. Предъявленный refresh
// сверяется со значением в сессионном хранилище; расхождение означает
// устаревший или повторно использованный токен.
func (s *Service) Reissue(ctx context.Context, accessToken, refreshToken string) (*models.TokenPair, error) {
	const op = "service.auth.Reissue"

	if err := s.issuer.Validate(refreshToken); err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	id, err := s.issuer.IdentityOf(accessToken)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	stored, err := s.sessions.RefreshTokenByIdentity(ctx, id.Username)
	if err != nil {
		if errors.Is(err, sessions.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNoActiveSession)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if stored != refreshToken {
		return nil, fmt.Errorf("%s: %w", op, ErrTokenMismatch)
	}

	pair, err := s.openSession(ctx, id.Username, id.Roles)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	logctx.From(ctx).Info("tokens_reissued",
		slog.String("username", redact.Email(id.Username)),
	)

	return pair, nil
}

// Logout завершает сессию: удаляет refresh-запись (идемпотентно) и
// помечает access-токен отозванным на остаток его срока жизни.
func (s *Service) Logout(ctx context.Context, accessToken string) error {
	const op = "service.auth.Logout"

	if err := s.issuer.Validate(accessToken); err != nil {
		return fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	id, err := s.issuer.IdentityOf(accessToken)
	if err != nil {
		return fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	if err := s.sessions.DeleteRefreshToken(ctx, id.Username); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	ttl, err := s.issuer.RemainingTTL(accessToken)
	if err != nil {
		return fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	if ttl > 0 {
		if err := s.sessions.BlacklistAccessToken(ctx, accessToken, ttl); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	logctx.From(ctx).Info("user_logged_out",
		slog.String("username", redact.Email(id.Username)),
	)

	return nil
}

// GrantAdminRole добавляет identity административную роль и сохраняет
// пользователя. Identity передаётся явно — её устанавливает транспорт
// из проверенного access-токена.
//
// Повторный вызов добавляет роль ещё раз: дедупликации нет.
func (s *Service) GrantAdminRole(ctx context.Context, identity string) error {
	const op = "service.auth.GrantAdminRole"

	user, err := s.users.UserByUsername(ctx, identity)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	roles := append(user.Roles, s.cfg.AdminRole)
	if err := s.users.UpdateUserRoles(ctx, identity, roles); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	logctx.From(ctx).Info("admin_role_granted",
		slog.String("username", redact.Email(identity)),
	)

	return nil
}

// ValidateAccess проверяет access-токен для авторизации запроса:
// полная валидация плюс сверка с чёрным списком отозванных токенов.
func (s *Service) ValidateAccess(ctx context.Context, accessToken string) (*tokens.Identity, error) {
	const op = "service.auth.ValidateAccess"

	if err := s.issuer.Validate(accessToken); err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	revoked, err := s.sessions.IsBlacklisted(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if revoked {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	id, err := s.issuer.IdentityOf(accessToken)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	return id, nil
}

// openSession выпускает пару токенов и перезаписывает refresh-запись
// identity новым значением с TTL на весь срок жизни refresh-токена.
func (s *Service) openSession(ctx context.Context, identity string, roles []string) (*models.TokenPair, error) {
	const op = "service.auth.openSession"

	pair, err := s.issuer.Issue(identity, roles)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ttl := time.Until(pair.RefreshExpiresAt)
	if err := s.sessions.SaveRefreshToken(ctx, identity, pair.RefreshToken, ttl); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return pair, nil
}
