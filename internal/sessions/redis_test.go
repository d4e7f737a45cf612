package sessions

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Интеграционные тесты сессионного хранилища:
// - поднимают реальный Redis через testcontainers-go (redis:7-alpine);
// - проверяют жизненный цикл refresh-записи, идемпотентность удаления,
//   чёрный список и истечение TTL.
//
// Запуск локально:
//   GO_TEST_INTEGRATION=1 go test ./internal/sessions -v -race -count=1

// startRedis поднимает временный Redis и возвращает хранилище с функцией
// очистки. Без GO_TEST_INTEGRATION тест пропускается.
func startRedis(t *testing.T) (Store, func()) {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(60 * time.Second),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	require.NoError(t, err)

	host, _ := c.Host(ctx)
	port, _ := c.MappedPort(ctx, "6379/tcp")

	st, err := NewRedisStore(fmt.Sprintf("redis://%s:%s/0", host, port.Port()))
	require.NoError(t, err)

	cleanup := func() {
		_ = st.Close()
		_ = c.Terminate(context.Background())
	}
	return st, cleanup
}

func TestIntegration_RefreshToken_Lifecycle(t *testing.T) {
	st, cleanup := startRedis(t)
	defer cleanup()

	ctx := context.Background()

	_, err := st.RefreshTokenByIdentity(ctx, "alice")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, st.SaveRefreshToken(ctx, "alice", "rt-1", time.Minute))

	got, err := st.RefreshTokenByIdentity(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, "rt-1", got)

	// Перезапись новым значением — ротация.
	require.NoError(t, st.SaveRefreshToken(ctx, "alice", "rt-2", time.Minute))
	got, err = st.RefreshTokenByIdentity(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, "rt-2", got)

	require.NoError(t, st.DeleteRefreshToken(ctx, "alice"))
	_, err = st.RefreshTokenByIdentity(ctx, "alice")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestIntegration_DeleteRefreshToken_Idempotent(t *testing.T) {
	st, cleanup := startRedis(t)
	defer cleanup()

	ctx := context.Background()

	// Удаление несуществующей записи не является ошибкой.
	require.NoError(t, st.DeleteRefreshToken(ctx, "ghost"))
	require.NoError(t, st.DeleteRefreshToken(ctx, "ghost"))
}

func TestIntegration_RefreshToken_ExpiresByTTL(t *testing.T) {
	st, cleanup := startRedis(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, st.SaveRefreshToken(ctx, "bob", "rt", 500*time.Millisecond))

	got, err := st.RefreshTokenByIdentity(ctx, "bob")
	require.NoError(t, err)
	require.Equal(t, "rt", got)

	time.Sleep(time.Second)

	_, err = st.RefreshTokenByIdentity(ctx, "bob")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestIntegration_Blacklist_Lifecycle(t *testing.T) {
	st, cleanup := startRedis(t)
	defer cleanup()

	ctx := context.Background()
	token := "header.payload.signature"

	revoked, err := st.IsBlacklisted(ctx, token)
	require.NoError(t, err)
	require.False(t, revoked)

	require.NoError(t, st.BlacklistAccessToken(ctx, token, 500*time.Millisecond))

	revoked, err = st.IsBlacklisted(ctx, token)
	require.NoError(t, err)
	require.True(t, revoked)

	// Маркер живёт не дольше остатка жизни access-токена.
	time.Sleep(time.Second)

	revoked, err = st.IsBlacklisted(ctx, token)
	require.NoError(t, err)
	require.False(t, revoked)
}

func TestIntegration_KeysDoNotCollide(t *testing.T) {
	st, cleanup := startRedis(t)
	defer cleanup()

	ctx := context.Background()

	// Identity и access-токен с одинаковым текстом живут в разных
	// пространствах ключей.
	require.NoError(t, st.SaveRefreshToken(ctx, "same-value", "rt", time.Minute))

	revoked, err := st.IsBlacklisted(ctx, "same-value")
	require.NoError(t, err)
	require.False(t, revoked)
}
