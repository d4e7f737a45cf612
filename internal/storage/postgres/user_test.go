package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/pribylovaa/go-auth-service/internal/models"
	"github.com/pribylovaa/go-auth-service/internal/storage"
)

// Интеграционные тесты репозитория пользователей:
// - поднимают реальный PostgreSQL через testcontainers-go (postgres:16-alpine);
// - применяют goose-миграции через RunMigrations (тот же путь, что и в проде);
// - проверяют happy-path, уникальность username и маппинг ошибок.
//
// Запуск локально:
//   GO_TEST_INTEGRATION=1 go test ./internal/storage/postgres -v -race -count=1

// startPostgres поднимает временный PostgreSQL, прогоняет миграции и
// возвращает инициализированное хранилище с функцией очистки.
// Без GO_TEST_INTEGRATION тест пропускается.
func startPostgres(t *testing.T) (*Storage, func()) {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "postgres:16-alpine",
		Env:          map[string]string{"POSTGRES_USER": "user", "POSTGRES_PASSWORD": "pass", "POSTGRES_DB": "db"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	require.NoError(t, err)

	host, _ := c.Host(ctx)
	port, _ := c.MappedPort(ctx, "5432/tcp")
	dsn := fmt.Sprintf("postgres://user:pass@%s:%s/db?sslmode=disable", host, port.Port())

	require.NoError(t, RunMigrations(ctx, dsn))

	st, err := New(ctx, dsn)
	require.NoError(t, err)

	cleanup := func() {
		st.Close()
		_ = c.Terminate(context.Background())
	}
	return st, cleanup
}

func newUser(username string) *models.User {
	now := time.Now().UTC()
	return &models.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        username,
		Phone:        "+79990000000",
		PasswordHash: "hash",
		Roles:        []string{"ROLE_USER"},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestIntegration_SaveUser_And_UserByUsername_OK(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	u := newUser("alice@example.com")
	require.NoError(t, st.SaveUser(context.Background(), u))

	got, err := st.UserByUsername(context.Background(), u.Username)
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)
	require.Equal(t, u.Username, got.Username)
	require.Equal(t, u.PasswordHash, got.PasswordHash)
	require.Equal(t, []string{"ROLE_USER"}, got.Roles)
	require.WithinDuration(t, u.CreatedAt, got.CreatedAt, time.Second)
	require.WithinDuration(t, u.UpdatedAt, got.UpdatedAt, time.Second)
}

func TestIntegration_SaveUser_DuplicateUsername_AlreadyExists(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	require.NoError(t, st.SaveUser(context.Background(), newUser("bob@example.com")))

	err := st.SaveUser(context.Background(), newUser("bob@example.com"))
	require.ErrorIs(t, err, storage.ErrAlreadyExists)
}

func TestIntegration_UserByUsername_NotFound(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	_, err := st.UserByUsername(context.Background(), "ghost@example.com")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestIntegration_ExistsByUsername(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	exists, err := st.ExistsByUsername(context.Background(), "carol@example.com")
	require.NoError(t, err)
	require.False(t, exists)

	require.NoError(t, st.SaveUser(context.Background(), newUser("carol@example.com")))

	exists, err = st.ExistsByUsername(context.Background(), "carol@example.com")
	require.NoError(t, err)
	require.True(t, exists)
}

func TestIntegration_UpdateUserRoles_OK_And_DuplicateRolesKept(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	u := newUser("dave@example.com")
	require.NoError(t, st.SaveUser(context.Background(), u))

	roles := []string{"ROLE_USER", "ROLE_ADMIN", "ROLE_ADMIN"}
	require.NoError(t, st.UpdateUserRoles(context.Background(), u.Username, roles))

	got, err := st.UserByUsername(context.Background(), u.Username)
	require.NoError(t, err)
	// Роли хранятся как есть, без дедупликации.
	require.Equal(t, roles, got.Roles)
	require.True(t, got.UpdatedAt.After(u.UpdatedAt) || got.UpdatedAt.Equal(u.UpdatedAt))
}

func TestIntegration_UpdateUserRoles_UnknownUser_NotFound(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	err := st.UpdateUserRoles(context.Background(), "ghost@example.com", []string{"ROLE_ADMIN"})
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestIntegration_ContextCanceled(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := st.UserByUsername(ctx, "any@example.com")
	require.Error(t, err)
}
