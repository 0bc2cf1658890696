package models

import "time"

// Session — запись реестра сессий: актуальная пара токенов для (user, device).
//
// Инвариант: на одну пару (UserID, DeviceID) существует не более одной записи;
// повторный логин с того же устройства перезаписывает предыдущую
// (вытеснение, а не накопление).
type Session struct {
	UserID   string
	DeviceID string
	// AccessToken — текущий access-токен сессии; заменяется при refresh.
	AccessToken string
	// RefreshToken — refresh-токен сессии; живёт до logout без ротации.
	RefreshToken string
	CreatedAt    time.Time
}

// Key возвращает составной ключ записи в формате "<userID>:<deviceID>".
func (s Session) Key() string {
	return SessionKey(s.UserID, s.DeviceID)
}

// SessionKey строит составной ключ реестра по паре (user, device).
func SessionKey(userID, deviceID string) string {
	return userID + ":" + deviceID
}
