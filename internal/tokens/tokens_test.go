package tokens

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-auth-service/internal/config"
)

func testAuthCfg() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:       "unit-test-secret",
		AccessTokenTTL:  30 * time.Second,
		RefreshTokenTTL: 24 * time.Hour,
		Issuer:          "auth-service",
		Audience:        []string{"web"},
	}
}

// TestIssue_AndValidate_OK — выпущенная пара проходит полную валидацию,
// identity и роли читаются обратно 1:1.
func TestIssue_AndValidate_OK(t *testing.T) {
	t.Parallel()

	m := NewManager(testAuthCfg())

	pair, err := m.Issue("user@example.com", []string{"ROLE_USER"})
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	require.NoError(t, m.Validate(pair.AccessToken))
	require.NoError(t, m.Validate(pair.RefreshToken))

	id, err := m.IdentityOf(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "user@example.com", id.Username)
	require.Equal(t, []string{"ROLE_USER"}, id.Roles)

	require.WithinDuration(t, time.Now().UTC().Add(30*time.Second), pair.AccessExpiresAt, 2*time.Second)
	require.WithinDuration(t, time.Now().UTC().Add(24*time.Hour), pair.RefreshExpiresAt, 2*time.Second)
}

// TestValidate_WrongSecret_WrongIssuer_WrongAudience — чужая подпись,
// неверный issuer и неверная audience отвергаются.
func TestValidate_WrongSecret_WrongIssuer_WrongAudience(t *testing.T) {
	t.Parallel()

	m := NewManager(testAuthCfg())

	other := testAuthCfg()
	other.JWTSecret = "other-secret"
	pairOther, err := NewManager(other).Issue("u", nil)
	require.NoError(t, err)
	require.Error(t, m.Validate(pairOther.AccessToken))

	badIssuer := testAuthCfg()
	badIssuer.Issuer = "someone-else"
	pairIss, err := NewManager(badIssuer).Issue("u", nil)
	require.NoError(t, err)
	require.Error(t, m.Validate(pairIss.AccessToken))

	badAud := testAuthCfg()
	badAud.Audience = []string{"mobile"}
	pairAud, err := NewManager(badAud).Issue("u", nil)
	require.NoError(t, err)
	require.Error(t, m.Validate(pairAud.AccessToken))
}

// TestValidate_WrongAlg — токен с другим алгоритмом подписи отвергается,
// включая alg=none.
func TestValidate_WrongAlg(t *testing.T) {
	t.Parallel()

	m := NewManager(testAuthCfg())

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "u",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	require.Error(t, m.Validate(raw))
	_, err = m.IdentityOf(raw)
	require.Error(t, err)
}

// TestIdentityOf_ExpiredAccessToken — истёкший access-токен не проходит
// Validate, но identity из него по-прежнему читается (сценарий переиздания).
func TestIdentityOf_ExpiredAccessToken(t *testing.T) {
	t.Parallel()

	expiredCfg := testAuthCfg()
	expiredCfg.AccessTokenTTL = -time.Minute

	pair, err := NewManager(expiredCfg).Issue("user@example.com", []string{"ROLE_USER"})
	require.NoError(t, err)

	m := NewManager(testAuthCfg())
	require.Error(t, m.Validate(pair.AccessToken))

	id, err := m.IdentityOf(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "user@example.com", id.Username)

	ttl, err := m.RemainingTTL(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, time.Duration(0), ttl)
}

// TestIdentityOf_TamperedSignature — подпись проверяется даже в
// «толерантном» разборе: подделанный токен отвергается.
func TestIdentityOf_TamperedSignature(t *testing.T) {
	t.Parallel()

	m := NewManager(testAuthCfg())

	pair, err := m.Issue("user@example.com", nil)
	require.NoError(t, err)

	tampered := pair.AccessToken[:len(pair.AccessToken)-2] + "xx"
	_, err = m.IdentityOf(tampered)
	require.Error(t, err)

	_, err = m.RemainingTTL(tampered)
	require.Error(t, err)
}

// TestRemainingTTL_LiveToken — для живого токена остаток близок к полному TTL.
func TestRemainingTTL_LiveToken(t *testing.T) {
	t.Parallel()

	m := NewManager(testAuthCfg())

	pair, err := m.Issue("u", nil)
	require.NoError(t, err)

	ttl, err := m.RemainingTTL(pair.AccessToken)
	require.NoError(t, err)
	require.Greater(t, ttl, 25*time.Second)
	require.LessOrEqual(t, ttl, 30*time.Second)
}
