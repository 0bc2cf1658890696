// sessions — реестр активных сессий: авторитетная пара (access, refresh)
// токенов на каждую пару (user, device).
//
// Реестр — то, что делает logout действенным: сам JWT криптографически
// валиден до истечения, но после logout его больше нет в реестре (и он в
// блэклисте). Реестр опрашивается только в revocation-смежных операциях
// (login/refresh/logout/validate), а не на каждом запросе — горячий путь
// обходится проверкой блэклиста.
package sessions

import (
	"context"
	"errors"

	"github.com/handaeho/AssetAssistant/internal/models"
)

var (
	// ErrNotFound — записи для запрошенного ключа/токена в реестре нет.
	ErrNotFound = errors.New("session not found")
	// ErrUnavailable — бэкенд реестра недоступен.
	ErrUnavailable = errors.New("session registry unavailable")
)

// Registry — контракт реестра сессий.
//
// Все мутации для одного ключа (user, device) — одиночные атомарные операции
// хранилища (не read-modify-write): гонка login/refresh за один ключ сходится
// к «последний писатель выигрывает» без потерянных обновлений.
type Registry interface {
	// Upsert перезаписывает запись для (s.UserID, s.DeviceID).
	Upsert(ctx context.Context, s models.Session) error
	// ByKey возвращает запись по паре (user, device).
	ByKey(ctx context.Context, userID, deviceID string) (*models.Session, error)
	// ByAccessToken возвращает запись, для которой presented-токен является
	// ТЕКУЩИМ access-токеном. Вытесненный при refresh токен не находится.
	ByAccessToken(ctx context.Context, accessToken string) (*models.Session, error)
	// AllByUser возвращает все активные сессии пользователя.
	AllByUser(ctx context.Context, userID string) ([]models.Session, error)
	// DeleteByKey удаляет запись для (user, device). Отсутствие записи — не ошибка.
	DeleteByKey(ctx context.Context, userID, deviceID string) error
	// DeleteAllByUser удаляет все записи пользователя.
	DeleteAllByUser(ctx context.Context, userID string) error
}
