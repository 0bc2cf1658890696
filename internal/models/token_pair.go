package models

import "time"

// TokenPair — пара токенов, выдаваемая при логине/обновлении.
//
// Описание:
//   - AccessToken — короткоживущий JWT для доступа к API;
//   - RefreshToken — долгоживущий JWT, предъявляется только для выпуска
//     нового access-токена;
//   - AccessExpiresAt — момент истечения access-токена (UTC).
type TokenPair struct {
	AccessToken     string
	RefreshToken    string
	AccessExpiresAt time.Time
}
