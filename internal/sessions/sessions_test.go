package sessions

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Unit-тесты схемы ключей сессионного хранилища.
//
// Ключевая инвариантность: пространства refresh-записей и меток отзыва
// не пересекаются ни при каком identity/токене, потому что префиксы различны.

func TestKeySchema_Prefixes(t *testing.T) {
	t.Parallel()

	require.Equal(t, "RT:user@example.com", refreshKey("user@example.com"))
	require.Equal(t, "BL:eyJhbGciOiJIUzI1NiJ9.x.y", blacklistKey("eyJhbGciOiJIUzI1NiJ9.x.y"))
}

func TestKeySchema_NoOverlapBetweenSpaces(t *testing.T) {
	t.Parallel()

	// Даже если identity выглядит как токен (и наоборот),
	// ключи различаются префиксом.
	v := "same-value"
	require.NotEqual(t, refreshKey(v), blacklistKey(v))

	// Метка отзыва не может попасть в пространство "RT:": для этого
	// access-токен должен был бы начинаться со сдвига префикса, но ключ
	// всё равно начнётся с "BL:".
	require.Equal(t, "BL:RT:abc", blacklistKey("RT:abc"))
}
