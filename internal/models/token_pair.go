package models

import "time"

// TokenPair — пара токенов, выдаваемая при входе и переиздании.
//
// Описание:
//   - AccessToken — короткоживущий JWT, самодостаточный (несёт identity и роли);
//   - RefreshToken — долгоживущий токен, непрозрачный для клиента и используемый
//     только для выпуска новой пары; его текущее значение зеркалируется
//     в сессионном хранилище под ключом identity;
//   - AccessExpiresAt/RefreshExpiresAt — моменты истечения (UTC).
type TokenPair struct {
	// AccessToken — JWT для авторизации запросов.
	AccessToken string
	// RefreshToken — токен для обновления пары.
	RefreshToken string
	// AccessExpiresAt — время истечения действия access-токена (UTC).
	AccessExpiresAt time.Time
	// RefreshExpiresAt — время истечения действия refresh-токена (UTC).
	RefreshExpiresAt time.Time
}
